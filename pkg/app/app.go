// Package app assembles one shop service: global middleware, operational
// endpoints (/health, /metrics) and the service's routes.
//
//	application := app.New("order").
//	    Routes(func(r *router.Router) {
//	        routes.RegisterOrder(r, orderController, tokens)
//	    })
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	err := application.Serve(ctx, ":"+config.AppPort("order"))
package app

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/kashvi-shop/internal/server"
	"github.com/shashiranjanraj/kashvi-shop/pkg/router"
)

// Application is the central configuration object for one service.
// Build one with New(), attach routes, then Serve() or mount Handler().
type Application struct {
	service     string
	routesFns   []func(*router.Router)
	middlewares []router.Middleware
}

// New creates an Application for the named service.
func New(service string) *Application {
	return &Application{service: service}
}

// Service returns the service name given to New.
func (a *Application) Service() string { return a.service }

// Routes registers a route-registration callback. Callbacks run in order
// each time a handler is built.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Use appends middleware that runs inside the global stack, just before
// the routes.
func (a *Application) Use(middlewares ...router.Middleware) *Application {
	a.middlewares = append(a.middlewares, middlewares...)
	return a
}

// Handler builds the complete http.Handler.
func (a *Application) Handler() http.Handler {
	return buildHandler(a)
}

// RouteList returns every route the service would serve.
func (a *Application) RouteList() []router.RouteInfo {
	return buildRouter(a).Routes()
}

// Serve listens on addr until ctx is cancelled.
func (a *Application) Serve(ctx context.Context, addr string) error {
	return server.Start(ctx, addr, a.Handler())
}
