package http

import (
	"context"
	"net/http"

	"github.com/IgorGrieder/linkly-connector/internal/config"
	"github.com/IgorGrieder/linkly-connector/internal/processing/clicks"
	"github.com/IgorGrieder/linkly-connector/internal/processing/links"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"github.com/IgorGrieder/linkly-connector/internal/transport/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var spanNames = map[string]string{
	"GET /health":                            "health",
	"GET /metrics":                           "metrics",
	"POST /webhooks/linkly/{nodeID}":         "webhook.receive",
	"GET /api/triggers":                      "triggers.list",
	"GET /api/triggers/{nodeID}":             "triggers.get",
	"POST /api/triggers/{nodeID}/activate":   "triggers.activate",
	"POST /api/triggers/{nodeID}/deactivate": "triggers.deactivate",
	"POST /api/links":                        "links.create",
	"GET /api/links":                         "links.list",
	"GET /api/links/options":                 "links.options",
	"POST /api/links/execute":                "links.execute",
	"GET /api/links/{id}":                    "links.get",
	"PUT /api/links/{id}":                    "links.update",
	"DELETE /api/links/{id}":                 "links.delete",
	"GET /api/links/{id}/clicks":             "links.clicks",
	"POST /api/credentials/test":             "credentials.test",
}

// Dependencies are the services the router exposes. Clicks, Limiter and
// HealthChecks are optional.
type Dependencies struct {
	Links        *links.Service
	Triggers     *trigger.Service
	Clicks       *clicks.Service
	Credentials  CredentialChecker
	Limiter      middleware.WindowCounter
	HealthChecks map[string]Pinger
	Log          *zap.Logger
}

type RouterOptions struct {
	EnableCORS    bool
	EnableLogging bool
	EnableMetrics bool
}

func DefaultRouterOptions() RouterOptions {
	return RouterOptions{
		EnableCORS:    true,
		EnableLogging: true,
		EnableMetrics: true,
	}
}

// Router is the service's HTTP handler.
type Router struct {
	http.Handler
	webhooks *WebhookHandler
}

// Drain waits for click emissions started by answered webhooks.
func (rt *Router) Drain(ctx context.Context) error {
	return rt.webhooks.Drain(ctx)
}

func NewRouter(cfg *config.Config, deps Dependencies) *Router {
	return NewRouterWithOptions(cfg, deps, DefaultRouterOptions())
}

func NewRouterWithOptions(cfg *config.Config, deps Dependencies, opts RouterOptions) *Router {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()

	healthHandler := NewHealthHandler(deps.HealthChecks)
	linksHandler := NewLinksHandler(deps.Links, deps.Clicks, log)
	triggersHandler := NewTriggersHandler(deps.Triggers, log)
	webhookHandler := NewWebhookHandler(deps.Triggers, cfg.Trigger.EmitTimeout, log)
	credentialsHandler := NewCredentialsHandler(deps.Credentials, log)

	handle(mux, "GET /health", http.HandlerFunc(healthHandler.Health))
	handle(mux, "GET /metrics", healthHandler.Metrics())

	handle(mux, "POST /webhooks/linkly/{nodeID}", middleware.Chain(
		http.HandlerFunc(webhookHandler.Receive),
		middleware.RateLimitMiddleware(deps.Limiter, cfg.Security.WebhookRateLimit, middleware.PathValueKey("nodeID")),
	))

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, middleware.APIKeyMiddleware(cfg.Security.APIKeys))
	}

	handle(mux, "GET /api/triggers", protected(triggersHandler.List))
	handle(mux, "GET /api/triggers/{nodeID}", protected(triggersHandler.Get))
	handle(mux, "POST /api/triggers/{nodeID}/activate", protected(triggersHandler.Activate))
	handle(mux, "POST /api/triggers/{nodeID}/deactivate", protected(triggersHandler.Deactivate))

	handle(mux, "POST /api/links", protected(linksHandler.Create))
	handle(mux, "GET /api/links", protected(linksHandler.List))
	handle(mux, "GET /api/links/options", protected(linksHandler.Options))
	handle(mux, "POST /api/links/execute", protected(linksHandler.Execute))
	handle(mux, "GET /api/links/{id}", protected(linksHandler.Get))
	handle(mux, "PUT /api/links/{id}", protected(linksHandler.Update))
	handle(mux, "DELETE /api/links/{id}", protected(linksHandler.Delete))
	if deps.Clicks != nil {
		handle(mux, "GET /api/links/{id}/clicks", protected(linksHandler.Clicks))
	}

	handle(mux, "POST /api/credentials/test", protected(credentialsHandler.Test))

	var innerHandler http.Handler = mux
	if opts.EnableCORS {
		innerHandler = middleware.CORSMiddleware(cfg.Security.AllowedOrigins)(innerHandler)
	}
	if opts.EnableLogging {
		innerHandler = middleware.LoggingMiddleware(log)(innerHandler)
	}
	if opts.EnableMetrics {
		innerHandler = middleware.MetricsMiddleware(innerHandler)
	}

	traced := otelhttp.NewHandler(innerHandler, cfg.App.Name,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	)

	return &Router{
		Handler:  traced,
		webhooks: webhookHandler,
	}
}

// handle registers h and renames the request span after the route.
func handle(mux *http.ServeMux, pattern string, h http.Handler) {
	name, ok := spanNames[pattern]
	if !ok {
		name = pattern
	}
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trace.SpanFromContext(r.Context()).SetName(name)
		h.ServeHTTP(w, r)
	}))
}
