// Package router assembles the HTTP routes.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"delivery-allocation/internal/http/handlers"
	obs "delivery-allocation/internal/http/middleware"
	"delivery-allocation/internal/http/middleware/ratelimit"
	"delivery-allocation/internal/logx"
)

const (
	defaultRequestTimeout = 5 * time.Second
	defaultRunTimeout     = 2 * time.Minute
)

// Params lists everything the router mounts. Nil optional fields are skipped.
type Params struct {
	Base       *handlers.Handlers
	Allocation *handlers.AllocationHandler
	Agents     *handlers.AgentHandler
	Catalog    *handlers.CatalogHandler

	Logger      logx.Logger
	HTTPMetrics *obs.HTTPMetrics
	RateLimit   *ratelimit.Middleware
	Metrics     http.Handler

	RunTimeout time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(p Params) http.Handler {
	runTimeout := p.RunTimeout
	if runTimeout <= 0 {
		runTimeout = defaultRunTimeout
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.Observability(p.Logger, p.HTTPMetrics))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(defaultRequestTimeout))

		r.Get("/ping", p.Base.Ping)
		r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(p.Base.HealthcheckHead))
		if p.Metrics != nil {
			r.Method(http.MethodGet, "/metrics", p.Metrics)
		}

		r.Get("/assignments/{date}", p.Allocation.Assignments)
		r.Get("/summary/{date}", p.Allocation.Summary)

		r.Get("/agents", p.Agents.List)
		r.Post("/agents/{id}/check-in", p.Agents.CheckIn)

		if p.Catalog != nil {
			r.Get("/warehouses", p.Catalog.Warehouses)
			r.Get("/orders", p.Catalog.Orders)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(runTimeout))
		if p.RateLimit != nil {
			r.Use(p.RateLimit.Handler())
		}
		r.Post("/allocation/run", p.Allocation.Run)
	})

	r.NotFound(http.HandlerFunc(p.Base.NotFound))

	return r
}
