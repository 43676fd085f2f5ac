package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/page-analyzer/internal/entity"
	"github.com/vadimbarashkov/page-analyzer/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

// apiHandler serves a read-only JSON view of stored URLs and checks.
type apiHandler struct {
	useCase urlUseCase
}

func newAPIHandler(useCase urlUseCase) *apiHandler {
	return &apiHandler{useCase: useCase}
}

func (h *apiHandler) listURLs(w http.ResponseWriter, r *http.Request) {
	urls, err := h.useCase.ListURLs(r.Context())
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.SuccessResponse(http.StatusOK, "", toURLSummaryResponses(urls)))
}

func (h *apiHandler) getURL(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.InvalidIDResponse)
		return
	}

	url, checks, err := h.useCase.GetURL(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.ResourceNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.SuccessResponse(http.StatusOK, "", toURLDetailsResponse(url, checks)))
}
