package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/gorilla/sessions"
)

const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashDanger  = "danger"
)

// Rendering order of flash kinds.
var flashKinds = []string{flashSuccess, flashInfo, flashDanger}

var errNoSession = errors.New("no session in request context")

type flashMessage struct {
	Kind    string
	Message string
}

type sessionCtxKey struct{}

// Flashes stores read-once notifications in a gorilla session.
type Flashes struct {
	store sessions.Store
	name  string
}

func NewFlashes(store sessions.Store, name string) *Flashes {
	return &Flashes{
		store: store,
		name:  name,
	}
}

// Middleware loads the flash session into the request context. A cookie that
// cannot be decoded is replaced with a fresh session.
func (f *Flashes) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := f.store.Get(r, f.name)
		if err != nil {
			httplog.LogEntrySetField(r.Context(), "session_err", slog.AnyValue(err))
		}
		if session == nil {
			session = sessions.NewSession(f.store, f.name)
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) (*sessions.Session, bool) {
	session, ok := ctx.Value(sessionCtxKey{}).(*sessions.Session)
	return session, ok
}

// addFlash queues a message for the next rendered page. It must be called
// before the response header is written.
func addFlash(w http.ResponseWriter, r *http.Request, msg flashMessage) error {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		return errNoSession
	}

	session.AddFlash(msg.Message, msg.Kind)
	return session.Save(r, w)
}

// popFlashes returns and clears the pending messages.
func popFlashes(w http.ResponseWriter, r *http.Request) []flashMessage {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		return nil
	}

	var msgs []flashMessage
	for _, kind := range flashKinds {
		for _, v := range session.Flashes(kind) {
			if s, ok := v.(string); ok {
				msgs = append(msgs, flashMessage{Kind: kind, Message: s})
			}
		}
	}

	if len(msgs) > 0 {
		if err := session.Save(r, w); err != nil {
			httplog.LogEntrySetField(r.Context(), "session_err", slog.AnyValue(err))
		}
	}

	return msgs
}
