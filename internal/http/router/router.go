package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/teknova-erp/resource-api/internal/config"
	"github.com/teknova-erp/resource-api/internal/http/handler"
	"github.com/teknova-erp/resource-api/internal/http/middleware"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"go.uber.org/zap"
)

// pinger is implemented by backends with a live connection to check.
type pinger interface {
	Ping(ctx context.Context) error
}

type Router struct {
	cfg                *config.Config
	logger             *zap.Logger
	backend            persistence.Backend
	rateLimiter        *middleware.RateLimiter
	customerHandler    *handler.CustomerHandler
	contractHandler    *handler.ContractHandler
	projectHandler     *handler.ProjectHandler
	personnelHandler   *handler.PersonnelHandler
	projectTaskHandler *handler.ProjectTaskHandler
	filterHandler      *handler.FilterHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	backend persistence.Backend,
	rateLimiter *middleware.RateLimiter,
	customerHandler *handler.CustomerHandler,
	contractHandler *handler.ContractHandler,
	projectHandler *handler.ProjectHandler,
	personnelHandler *handler.PersonnelHandler,
	projectTaskHandler *handler.ProjectTaskHandler,
	filterHandler *handler.FilterHandler,
) *Router {
	return &Router{
		cfg:                cfg,
		logger:             logger,
		backend:            backend,
		rateLimiter:        rateLimiter,
		customerHandler:    customerHandler,
		contractHandler:    contractHandler,
		projectHandler:     projectHandler,
		personnelHandler:   personnelHandler,
		projectTaskHandler: projectTaskHandler,
		filterHandler:      filterHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Backend health check (readiness probe)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"status":      "healthy",
			"persistence": rt.cfg.Persistence.Mode,
		}
		code := http.StatusOK

		if p, ok := rt.backend.(pinger); ok {
			if err := p.Ping(r.Context()); err != nil {
				rt.logger.Error("Backend health check failed", zap.Error(err))
				status["status"] = "unhealthy"
				status["error"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", rt.customerHandler.List)
			r.Get("/grouped", rt.customerHandler.Grouped)
			r.Post("/", rt.customerHandler.Create)
			r.Get("/{id}", rt.customerHandler.GetByID)
			r.Put("/{id}", rt.customerHandler.Update)
			r.Delete("/{id}", rt.customerHandler.Delete)
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Get("/", rt.contractHandler.List)
			r.Post("/", rt.contractHandler.Create)
			r.Get("/{id}", rt.contractHandler.GetByID)
			r.Put("/{id}", rt.contractHandler.Update)
			r.Delete("/{id}", rt.contractHandler.Delete)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", rt.projectHandler.List)
			r.Post("/", rt.projectHandler.Create)
			r.Get("/{id}", rt.projectHandler.GetByID)
			r.Put("/{id}", rt.projectHandler.Update)
			r.Delete("/{id}", rt.projectHandler.Delete)
		})

		r.Route("/personnel", func(r chi.Router) {
			r.Get("/", rt.personnelHandler.List)
			r.Get("/periods", rt.personnelHandler.Periods)
			r.Get("/period/{year}/{month}", rt.personnelHandler.ListByPeriod)
			r.Post("/", rt.personnelHandler.Create)
			r.Get("/{id}", rt.personnelHandler.GetByID)
			r.Put("/{id}", rt.personnelHandler.Update)
			r.Delete("/{id}", rt.personnelHandler.Delete)
		})

		r.Route("/project-tasks", func(r chi.Router) {
			r.Get("/", rt.projectTaskHandler.List)
			r.Post("/", rt.projectTaskHandler.Create)
			r.Get("/{id}", rt.projectTaskHandler.GetByID)
			r.Put("/{id}", rt.projectTaskHandler.Update)
			r.Delete("/{id}", rt.projectTaskHandler.Delete)
		})

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", rt.filterHandler.List)
			r.Post("/", rt.filterHandler.Save)
			r.Get("/{id}", rt.filterHandler.GetByID)
			r.Post("/{id}/load", rt.filterHandler.Load)
			r.Delete("/{id}", rt.filterHandler.Delete)
		})
	})

	return r
}
