// Package recoverer turns handler panics into a logged error and a fallback response.
package recoverer

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// New returns middleware that recovers from panics, logs them and serves
// fallback instead. http.ErrAbortHandler is re-raised so the server can abort
// the connection.
func New(logger *slog.Logger, fallback http.Handler) func(http.Handler) http.Handler {
	const op = "middleware.recoverer.New"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.Error(
					"something went wrong, panic occurred",
					slog.Group(op,
						slog.Any("err", rvr),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					),
				)

				fallback.ServeHTTP(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
