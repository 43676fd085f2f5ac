package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	pageIndex    = "index"
	pageURLs     = "urls"
	pageURL      = "url"
	pageNotFound = "not_found"
	pageError    = "error"
)

type pageData struct {
	Title   string
	Flashes []flashMessage
	Data    any
}

type views struct {
	pages map[string]*template.Template
}

func newViews() (*views, error) {
	const op = "http.newViews"

	layout, err := template.ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse layout: %w", op, err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{pageIndex, pageURLs, pageURL, pageNotFound, pageError} {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to clone layout: %w", op, err)
		}

		if _, err := t.ParseFS(templatesFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("%s: failed to parse %s page: %w", op, name, err)
		}

		pages[name] = t
	}

	return &views{pages: pages}, nil
}

func mustViews() *views {
	v, err := newViews()
	if err != nil {
		panic(err)
	}
	return v
}

// render executes page into a buffer so a template error still yields a
// clean 500 response.
func (v *views) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	var buf bytes.Buffer

	if err := v.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (v *views) notFound(w http.ResponseWriter, r *http.Request) {
	v.render(w, r, http.StatusNotFound, pageNotFound, pageData{
		Title:   "Not Found",
		Flashes: popFlashes(w, r),
	})
}

func (v *views) serverError(w http.ResponseWriter, r *http.Request) {
	v.render(w, r, http.StatusInternalServerError, pageError, pageData{
		Title: "Server Error",
	})
}
