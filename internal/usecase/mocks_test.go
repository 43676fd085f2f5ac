package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/page-analyzer/internal/adapter/fetcher"
	"github.com/vadimbarashkov/page-analyzer/internal/entity"
)

type mockURLRepository struct {
	mock.Mock
}

func (m *mockURLRepository) Save(ctx context.Context, name string) (*entity.URL, error) {
	args := m.Called(ctx, name)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLRepository) RetrieveByName(ctx context.Context, name string) (*entity.URL, error) {
	args := m.Called(ctx, name)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLRepository) RetrieveByID(ctx context.Context, id int64) (*entity.URL, error) {
	args := m.Called(ctx, id)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLRepository) RetrieveAll(ctx context.Context) ([]entity.URLSummary, error) {
	args := m.Called(ctx)
	urls, _ := args.Get(0).([]entity.URLSummary)
	return urls, args.Error(1)
}

type mockURLCheckRepository struct {
	mock.Mock
}

func (m *mockURLCheckRepository) Save(ctx context.Context, check entity.URLCheck) (*entity.URLCheck, error) {
	args := m.Called(ctx, check)
	saved, _ := args.Get(0).(*entity.URLCheck)
	return saved, args.Error(1)
}

func (m *mockURLCheckRepository) RetrieveByURLID(ctx context.Context, urlID int64) ([]entity.URLCheck, error) {
	args := m.Called(ctx, urlID)
	checks, _ := args.Get(0).([]entity.URLCheck)
	return checks, args.Error(1)
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*fetcher.Response, error) {
	args := m.Called(ctx, url)
	resp, _ := args.Get(0).(*fetcher.Response)
	return resp, args.Error(1)
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(body []byte) entity.SEO {
	args := m.Called(body)
	return args.Get(0).(entity.SEO)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) ObserveCheck(outcome string) {
	m.Called(outcome)
}
