package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/previdsoft/procsync/internal/reconcile"
	"github.com/previdsoft/procsync/internal/store"
)

type application struct {
	config  config
	store   store.Storage
	engine  syncEngine
	tenants tenantResolver
	log     *logrus.Logger
}

// Narrow views of the engine and resolver, so handler tests can stub them.
type syncEngine interface {
	Sync(ctx context.Context, credential string, empresaID int64, items []reconcile.ItemInput) (*reconcile.Summary, error)
}

type tenantResolver interface {
	Resolve(ctx context.Context, credential string) (*store.Empresa, error)
}

type config struct {
	addr string
	db   dbConfig
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", app.healthCheckHandler)

	r.Route("/sync", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-API-Key"},
		}))
		r.Post("/", app.handleSync)
	})

	r.Route("/tenant", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"X-API-Key"},
		}))
		r.Get("/", app.handleGetTenant)
	})

	return r
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.log.Infof("Server started on %s", app.config.addr)
	return srv.ListenAndServe()
}
