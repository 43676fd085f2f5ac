package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/page-analyzer/internal/entity"
	"github.com/vadimbarashkov/page-analyzer/internal/usecase"
)

type mockURLUseCase struct {
	mock.Mock
}

func (m *mockURLUseCase) AddURL(ctx context.Context, raw string) (*entity.URL, bool, error) {
	args := m.Called(ctx, raw)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Bool(1), args.Error(2)
}

func (m *mockURLUseCase) ListURLs(ctx context.Context) ([]entity.URLSummary, error) {
	args := m.Called(ctx)
	urls, _ := args.Get(0).([]entity.URLSummary)
	return urls, args.Error(1)
}

func (m *mockURLUseCase) GetURL(ctx context.Context, id int64) (*entity.URL, []entity.URLCheck, error) {
	args := m.Called(ctx, id)
	url, _ := args.Get(0).(*entity.URL)
	checks, _ := args.Get(1).([]entity.URLCheck)
	return url, checks, args.Error(2)
}

type mockCheckUseCase struct {
	mock.Mock
}

func (m *mockCheckUseCase) RunCheck(ctx context.Context, urlID int64) (usecase.CheckResult, error) {
	args := m.Called(ctx, urlID)
	return args.Get(0).(usecase.CheckResult), args.Error(1)
}
