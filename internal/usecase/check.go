package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/vadimbarashkov/page-analyzer/internal/adapter/fetcher"
	"github.com/vadimbarashkov/page-analyzer/internal/entity"
)

type CheckStatus int

const (
	// CheckSkipped means the URL does not exist and nothing was fetched.
	CheckSkipped CheckStatus = iota
	// CheckFailed means the fetch failed and no check was stored.
	CheckFailed
	CheckSucceeded
)

const (
	outcomeSkipped   = "skipped"
	outcomeSucceeded = "succeeded"
)

// CheckResult describes a finished check attempt. Reason and StatusCode are
// set only for CheckFailed, Check only for CheckSucceeded.
type CheckResult struct {
	Status     CheckStatus
	Reason     fetcher.Kind
	StatusCode int
	Check      *entity.URLCheck
}

type pageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Response, error)
}

type seoExtractor interface {
	Extract(body []byte) entity.SEO
}

type checkMetrics interface {
	ObserveCheck(outcome string)
}

type CheckUseCase struct {
	urlRepo   urlRepository
	checkRepo urlCheckRepository
	fetcher   pageFetcher
	extractor seoExtractor
	metrics   checkMetrics
}

func NewCheckUseCase(
	urlRepo urlRepository,
	checkRepo urlCheckRepository,
	f pageFetcher,
	e seoExtractor,
	m checkMetrics,
) *CheckUseCase {
	return &CheckUseCase{
		urlRepo:   urlRepo,
		checkRepo: checkRepo,
		fetcher:   f,
		extractor: e,
		metrics:   m,
	}
}

// RunCheck fetches the page stored under urlID and records its SEO signals.
// A failed fetch is reported through the result, not the error; the error is
// reserved for storage failures. The fetch ignores cancellation of ctx and is
// bounded only by the fetcher timeout.
func (uc *CheckUseCase) RunCheck(ctx context.Context, urlID int64) (CheckResult, error) {
	const op = "usecase.CheckUseCase.RunCheck"

	url, err := uc.urlRepo.RetrieveByID(ctx, urlID)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			uc.metrics.ObserveCheck(outcomeSkipped)
			return CheckResult{Status: CheckSkipped}, nil
		}
		return CheckResult{}, fmt.Errorf("%s: failed to get url: %w", op, err)
	}

	ctx = context.WithoutCancel(ctx)

	resp, err := uc.fetcher.Fetch(ctx, url.Name)
	if err != nil {
		result := CheckResult{Status: CheckFailed, Reason: fetcher.KindOther}

		var fetchErr *fetcher.Error
		if errors.As(err, &fetchErr) {
			result.Reason = fetchErr.Kind
			result.StatusCode = fetchErr.StatusCode
		}

		uc.metrics.ObserveCheck(result.Reason.String())
		return result, nil
	}

	statusCode := resp.StatusCode
	check, err := uc.checkRepo.Save(ctx, entity.URLCheck{
		URLID:      url.ID,
		StatusCode: &statusCode,
		SEO:        uc.extractor.Extract(resp.Body),
	})
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			uc.metrics.ObserveCheck(outcomeSkipped)
			return CheckResult{Status: CheckSkipped}, nil
		}
		return CheckResult{}, fmt.Errorf("%s: failed to save check: %w", op, err)
	}

	uc.metrics.ObserveCheck(outcomeSucceeded)

	return CheckResult{Status: CheckSucceeded, Check: check}, nil
}
