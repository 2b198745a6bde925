package app

// pkg/app/kernel.go builds an http.Handler from the Application config.
// It has no imports of project-specific code; routes are injected via the
// Application builder methods.

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
	"github.com/shashiranjanraj/kashvi-shop/pkg/metrics"
	"github.com/shashiranjanraj/kashvi-shop/pkg/middleware"
	"github.com/shashiranjanraj/kashvi-shop/pkg/reqid"
	"github.com/shashiranjanraj/kashvi-shop/pkg/router"
)

// buildRouter constructs the router with the global middleware stack, the
// operational endpoints and the application's routes.
func buildRouter(a *Application) *router.Router {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics: outermost for accurate total latency
	//  2. Recovery: catches panics before they kill the goroutine
	//  3. Request ID: inject unique ID before anything logs
	//  4. Logger: logs request_id from context
	//  5. CORS
	//  6. Rate limiter: per client IP, frontend only unless configured
	//  7. Application middleware (sessions on the frontend)
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(config.CORSOrigins()...))
	r.Use(middleware.RateLimit(config.RateLimitPerMinute(a.service), time.Minute, config.TrustedProxies()...))
	r.Use(a.middlewares...)

	// No auth, no per-route middleware.
	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", ctx.Wrap(health(a.service)))

	for _, fn := range a.routesFns {
		fn(r)
	}

	return r
}

func health(service string) ctx.HandlerFunc {
	body := map[string]string{"status": "ok", "service": service}
	return func(c *ctx.Context) {
		c.Success(body)
	}
}

func buildHandler(a *Application) http.Handler {
	return buildRouter(a).Handler()
}
