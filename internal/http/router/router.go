package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"service-delivery/internal/http/handlers"
	obs "service-delivery/internal/http/middleware"
	"service-delivery/internal/logx"
)

// Deps are the handlers and middlewares mounted by New.
type Deps struct {
	Base   *handlers.Handlers
	Agents *handlers.AgentHandler
	Tasks  *handlers.TaskHandler

	// Auth authenticates every /api/delivery route. Required.
	Auth func(http.Handler) http.Handler
	// RateLimit runs after Auth so limits are keyed per user. Optional.
	RateLimit func(http.Handler) http.Handler
	// Metrics serves GET /metrics. Optional.
	Metrics http.Handler

	Logger  logx.Logger
	Timeout time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = logx.Nop()
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.Observability(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Route("/api/delivery", func(api chi.Router) {
		api.Use(d.Auth)
		if d.RateLimit != nil {
			api.Use(d.RateLimit)
		}

		api.Post("/agents", d.Agents.Register)
		api.Put("/agents/location", d.Agents.UpdateLocation)
		api.Get("/agents/me", d.Agents.Me)

		api.Post("/tasks", d.Tasks.Create)
		api.Put("/tasks/{id}/status", d.Tasks.UpdateStatus)
		api.Get("/tasks/{id}", d.Tasks.Get)
	})

	r.NotFound(http.HandlerFunc(d.Base.NotFound))
	r.MethodNotAllowed(http.HandlerFunc(d.Base.MethodNotAllowed))

	return otelhttp.NewHandler(r, "service-delivery")
}
