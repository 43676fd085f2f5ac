package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/vadimbarashkov/page-analyzer/internal/entity"
	"github.com/vadimbarashkov/page-analyzer/pkg/urlnorm"
)

type urlRepository interface {
	Save(ctx context.Context, name string) (*entity.URL, error)
	RetrieveByName(ctx context.Context, name string) (*entity.URL, error)
	RetrieveByID(ctx context.Context, id int64) (*entity.URL, error)
	RetrieveAll(ctx context.Context) ([]entity.URLSummary, error)
}

type urlCheckRepository interface {
	Save(ctx context.Context, check entity.URLCheck) (*entity.URLCheck, error)
	RetrieveByURLID(ctx context.Context, urlID int64) ([]entity.URLCheck, error)
}

type URLUseCase struct {
	urlRepo   urlRepository
	checkRepo urlCheckRepository
}

func NewURLUseCase(urlRepo urlRepository, checkRepo urlCheckRepository) *URLUseCase {
	return &URLUseCase{
		urlRepo:   urlRepo,
		checkRepo: checkRepo,
	}
}

// AddURL normalizes raw and stores it unless a URL with the same normalized
// name already exists. The returned bool reports whether a new row was created.
// Validation failures wrap the urlnorm sentinel errors.
func (uc *URLUseCase) AddURL(ctx context.Context, raw string) (*entity.URL, bool, error) {
	const op = "usecase.URLUseCase.AddURL"

	name, err := urlnorm.Normalize(raw)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	url, err := uc.urlRepo.RetrieveByName(ctx, name)
	if err == nil {
		return url, false, nil
	}
	if !errors.Is(err, entity.ErrURLNotFound) {
		return nil, false, fmt.Errorf("%s: failed to look up url: %w", op, err)
	}

	url, err = uc.urlRepo.Save(ctx, name)
	if err == nil {
		return url, true, nil
	}
	if !errors.Is(err, entity.ErrURLExists) {
		return nil, false, fmt.Errorf("%s: failed to save url: %w", op, err)
	}

	// A concurrent request inserted the same name first.
	url, err = uc.urlRepo.RetrieveByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to retrieve existing url: %w", op, err)
	}

	return url, false, nil
}

func (uc *URLUseCase) ListURLs(ctx context.Context) ([]entity.URLSummary, error) {
	const op = "usecase.URLUseCase.ListURLs"

	urls, err := uc.urlRepo.RetrieveAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list urls: %w", op, err)
	}

	return urls, nil
}

// GetURL returns the URL with its checks, newest first.
func (uc *URLUseCase) GetURL(ctx context.Context, id int64) (*entity.URL, []entity.URLCheck, error) {
	const op = "usecase.URLUseCase.GetURL"

	url, err := uc.urlRepo.RetrieveByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to get url: %w", op, err)
	}

	checks, err := uc.checkRepo.RetrieveByURLID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to get url checks: %w", op, err)
	}

	return url, checks, nil
}
