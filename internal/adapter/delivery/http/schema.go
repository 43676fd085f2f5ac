package http

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/vadimbarashkov/page-analyzer/internal/adapter/fetcher"
	"github.com/vadimbarashkov/page-analyzer/internal/entity"
	"github.com/vadimbarashkov/page-analyzer/internal/usecase"
	"github.com/vadimbarashkov/page-analyzer/pkg/urlnorm"
)

const timeLayout = "2006-01-02 15:04:05"

const (
	msgURLAdded          = "Page successfully added"
	msgURLExists         = "Page already exists"
	msgCheckSucceeded    = "Page successfully checked"
	msgConnectionFailed  = "Could not connect to the site"
	msgTimeout           = "The site did not respond in time"
	msgCheckFailed       = "An error occurred during the check"
	msgSiteErrorTemplate = "The site responded with error status %d"

	msgURLEmpty   = "URL must not be empty"
	msgURLInvalid = "Invalid URL"
	msgURLTooLong = "URL must not exceed 255 characters"
)

// validationMessage returns the form message for a urlnorm error and false
// when err is not a validation error.
func validationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, urlnorm.ErrEmpty):
		return msgURLEmpty, true
	case errors.Is(err, urlnorm.ErrTooLong):
		return msgURLTooLong, true
	case errors.Is(err, urlnorm.ErrInvalid):
		return msgURLInvalid, true
	default:
		return "", false
	}
}

// checkMessage maps a check outcome to a flash. Skipped checks produce none.
func checkMessage(result usecase.CheckResult) (flashMessage, bool) {
	switch result.Status {
	case usecase.CheckSucceeded:
		return flashMessage{Kind: flashSuccess, Message: msgCheckSucceeded}, true
	case usecase.CheckFailed:
		msg := msgCheckFailed

		switch result.Reason {
		case fetcher.KindConnectionFailed:
			msg = msgConnectionFailed
		case fetcher.KindClientError, fetcher.KindServerError:
			msg = fmt.Sprintf(msgSiteErrorTemplate, result.StatusCode)
		case fetcher.KindTimeout:
			msg = msgTimeout
		}

		return flashMessage{Kind: flashDanger, Message: msg}, true
	default:
		return flashMessage{}, false
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type urlForm struct {
	Value string
	Error string
}

type urlView struct {
	ID        int64
	Name      string
	CreatedAt string
}

func toURLView(url *entity.URL) urlView {
	return urlView{
		ID:        url.ID,
		Name:      url.Name,
		CreatedAt: formatTime(&url.CreatedAt),
	}
}

type urlSummaryView struct {
	urlView
	LastCheckedAt  string
	LastStatusCode string
}

func toURLSummaryViews(urls []entity.URLSummary) []urlSummaryView {
	views := make([]urlSummaryView, 0, len(urls))
	for i := range urls {
		views = append(views, urlSummaryView{
			urlView:        toURLView(&urls[i].URL),
			LastCheckedAt:  formatTime(urls[i].LastCheckedAt),
			LastStatusCode: formatInt(urls[i].LastStatusCode),
		})
	}
	return views
}

type checkView struct {
	ID          int64
	StatusCode  string
	H1          string
	Title       string
	Description string
	CreatedAt   string
}

func toCheckViews(checks []entity.URLCheck) []checkView {
	views := make([]checkView, 0, len(checks))
	for _, c := range checks {
		views = append(views, checkView{
			ID:          c.ID,
			StatusCode:  formatInt(c.StatusCode),
			H1:          formatString(c.H1),
			Title:       formatString(c.Title),
			Description: formatString(c.Description),
			CreatedAt:   formatTime(&c.CreatedAt),
		})
	}
	return views
}

type urlPage struct {
	URL    urlView
	Checks []checkView
}

// urlResponse represents a stored URL in API responses.
type urlResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toURLResponse(url *entity.URL) urlResponse {
	return urlResponse{
		ID:        url.ID,
		Name:      url.Name,
		CreatedAt: url.CreatedAt,
	}
}

// urlSummaryResponse adds the latest check to a urlResponse.
type urlSummaryResponse struct {
	urlResponse
	LastCheckedAt  *time.Time `json:"last_checked_at"`
	LastStatusCode *int       `json:"last_status_code"`
}

func toURLSummaryResponses(urls []entity.URLSummary) []urlSummaryResponse {
	resp := make([]urlSummaryResponse, 0, len(urls))
	for i := range urls {
		resp = append(resp, urlSummaryResponse{
			urlResponse:    toURLResponse(&urls[i].URL),
			LastCheckedAt:  urls[i].LastCheckedAt,
			LastStatusCode: urls[i].LastStatusCode,
		})
	}
	return resp
}

type checkResponse struct {
	ID          int64     `json:"id"`
	StatusCode  *int      `json:"status_code"`
	H1          *string   `json:"h1"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// urlDetailsResponse represents a URL with its check history, newest first.
type urlDetailsResponse struct {
	urlResponse
	Checks []checkResponse `json:"checks"`
}

func toURLDetailsResponse(url *entity.URL, checks []entity.URLCheck) urlDetailsResponse {
	resp := urlDetailsResponse{
		urlResponse: toURLResponse(url),
		Checks:      make([]checkResponse, 0, len(checks)),
	}
	for _, c := range checks {
		resp.Checks = append(resp.Checks, checkResponse{
			ID:          c.ID,
			StatusCode:  c.StatusCode,
			H1:          c.H1,
			Title:       c.Title,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
		})
	}
	return resp
}
