package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/page-analyzer/internal/entity"
	"github.com/vadimbarashkov/page-analyzer/internal/usecase"
)

const urlNameField = "url[name]"

type urlUseCase interface {
	AddURL(ctx context.Context, raw string) (*entity.URL, bool, error)
	ListURLs(ctx context.Context) ([]entity.URLSummary, error)
	GetURL(ctx context.Context, id int64) (*entity.URL, []entity.URLCheck, error)
}

type checkUseCase interface {
	RunCheck(ctx context.Context, urlID int64) (usecase.CheckResult, error)
}

type urlHandler struct {
	urlUseCase   urlUseCase
	checkUseCase checkUseCase
	views        *views
}

func newURLHandler(urlUseCase urlUseCase, checkUseCase checkUseCase, views *views) *urlHandler {
	return &urlHandler{
		urlUseCase:   urlUseCase,
		checkUseCase: checkUseCase,
		views:        views,
	}
}

// parseID reads a positive integer route parameter.
func parseID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *urlHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
	h.views.serverError(w, r)
}

func (h *urlHandler) index(w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, pageIndex, pageData{
		Flashes: popFlashes(w, r),
		Data:    urlForm{},
	})
}

func (h *urlHandler) createURL(w http.ResponseWriter, r *http.Request) {
	raw := r.PostFormValue(urlNameField)

	url, created, err := h.urlUseCase.AddURL(r.Context(), raw)
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			h.views.render(w, r, http.StatusUnprocessableEntity, pageIndex, pageData{
				Flashes: popFlashes(w, r),
				Data:    urlForm{Value: raw, Error: msg},
			})
			return
		}

		h.serverError(w, r, err)
		return
	}

	msg := flashMessage{Kind: flashSuccess, Message: msgURLAdded}
	if !created {
		msg = flashMessage{Kind: flashInfo, Message: msgURLExists}
	}

	if err := addFlash(w, r, msg); err != nil {
		httplog.LogEntrySetField(r.Context(), "flash_err", slog.AnyValue(err))
	}

	http.Redirect(w, r, fmt.Sprintf("/urls/%d", url.ID), http.StatusFound)
}

func (h *urlHandler) listURLs(w http.ResponseWriter, r *http.Request) {
	urls, err := h.urlUseCase.ListURLs(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.views.render(w, r, http.StatusOK, pageURLs, pageData{
		Title:   "Sites",
		Flashes: popFlashes(w, r),
		Data:    toURLSummaryViews(urls),
	})
}

func (h *urlHandler) showURL(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.views.notFound(w, r)
		return
	}

	url, checks, err := h.urlUseCase.GetURL(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			h.views.notFound(w, r)
			return
		}

		h.serverError(w, r, err)
		return
	}

	h.views.render(w, r, http.StatusOK, pageURL, pageData{
		Title:   url.Name,
		Flashes: popFlashes(w, r),
		Data: urlPage{
			URL:    toURLView(url),
			Checks: toCheckViews(checks),
		},
	})
}

// runCheck always redirects back to the URL page. The outcome is reported
// through a flash; a missing URL is silently ignored.
func (h *urlHandler) runCheck(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.views.notFound(w, r)
		return
	}

	result, err := h.checkUseCase.RunCheck(r.Context(), id)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if result.Status == usecase.CheckFailed {
		httplog.LogEntrySetField(r.Context(), "check_failure", slog.StringValue(result.Reason.String()))
	}

	if msg, ok := checkMessage(result); ok {
		if err := addFlash(w, r, msg); err != nil {
			httplog.LogEntrySetField(r.Context(), "flash_err", slog.AnyValue(err))
		}
	}

	http.Redirect(w, r, fmt.Sprintf("/urls/%d", id), http.StatusFound)
}
