// Package http wires the handler set into the route tree and runs the
// server.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/heliumchem/helium/internal/interfaces/http/handlers"
	"github.com/heliumchem/helium/internal/interfaces/http/middleware"
	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/internal/observability/metrics"
)

// RouterConfig aggregates the handler and middleware dependencies for the
// route tree.
type RouterConfig struct {
	SearchHandler   *handlers.SearchHandler
	MoleculeHandler *handlers.MoleculeHandler
	HealthHandler   *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *metrics.Metrics
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Logger != nil {
		r.Use(middleware.Logging(cfg.Logger))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.Metrics != nil {
			api.Use(middleware.Metrics(cfg.Metrics))
		}

		if cfg.SearchHandler != nil {
			api.Post("/search", cfg.SearchHandler.Search)
		}
		if cfg.MoleculeHandler != nil {
			api.Route("/molecules", func(mols chi.Router) {
				mols.Post("/", cfg.MoleculeHandler.Register)
				mols.Get("/", cfg.MoleculeHandler.List)
				mols.Get("/filter", cfg.MoleculeHandler.Filter)
				mols.Get("/{id}", cfg.MoleculeHandler.Get)
				mols.Delete("/{id}", cfg.MoleculeHandler.Delete)
			})
		}
	})

	return r
}
