// Package app wires the page analyzer together and runs its HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vadimbarashkov/page-analyzer/internal/adapter/extractor"
	"github.com/vadimbarashkov/page-analyzer/internal/adapter/fetcher"
	"github.com/vadimbarashkov/page-analyzer/internal/config"
	"github.com/vadimbarashkov/page-analyzer/internal/metrics"
	"github.com/vadimbarashkov/page-analyzer/internal/usecase"
	"github.com/vadimbarashkov/page-analyzer/migrations"
	"github.com/vadimbarashkov/page-analyzer/pkg/postgres"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/page-analyzer/internal/adapter/delivery/http"
	repository "github.com/vadimbarashkov/page-analyzer/internal/adapter/repository/postgres"
)

const sessionKeyLength = 32

var errSessionKey = errors.New("failed to generate session key")

func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	dsn := cfg.Postgres.DSN()

	db, err := postgres.New(
		ctx,
		dsn,
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(migrations.FS, dsn); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	logger.Info("database is ready")

	router, err := newHandler(db, cfg, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cfg.Session.Secret == "" {
		logger.Warn("session secret is not set, flash messages will not survive a restart")
	}

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", server.Addr), slog.String("env", cfg.Env))

		var err error

		if cfg.HTTPServer.TLS() {
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTPServer.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// newHandler builds the HTTP handler over db with its own metrics registry.
func newHandler(db *sqlx.DB, cfg *config.Config, logger *httplog.Logger) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	urlRepo := repository.NewURLRepository(db)
	checkRepo := repository.NewURLCheckRepository(db)

	pageFetcher := fetcher.New(fetcher.Config{
		Timeout:      cfg.Fetcher.Timeout,
		MaxRedirects: cfg.Fetcher.MaxRedirects,
		UserAgent:    cfg.Fetcher.UserAgent,
		MaxBodySize:  cfg.Fetcher.MaxBodySize,
	})

	urlUseCase := usecase.NewURLUseCase(urlRepo, checkRepo)
	checkUseCase := usecase.NewCheckUseCase(urlRepo, checkRepo, pageFetcher, extractor.New(), m)

	store, err := newSessionStore(cfg.Session, cfg.HTTPServer.TLS())
	if err != nil {
		return nil, err
	}

	return delivery.NewRouter(
		logger,
		m,
		delivery.NewFlashes(store, cfg.Session.Name),
		urlUseCase,
		checkUseCase,
	), nil
}

// newSessionStore builds the cookie store for flash messages. Without a
// secret a random key is used for the lifetime of the process.
func newSessionStore(cfg config.Session, secure bool) (*sessions.CookieStore, error) {
	key := []byte(cfg.Secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(sessionKeyLength)
		if key == nil {
			return nil, errSessionKey
		}
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return store, nil
}
