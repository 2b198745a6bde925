// Package routes mounts each service's controllers on a router.
package routes

import (
	"github.com/shashiranjanraj/kashvi-shop/app/controllers"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
	"github.com/shashiranjanraj/kashvi-shop/pkg/middleware"
	"github.com/shashiranjanraj/kashvi-shop/pkg/router"
)

// RegisterUser mounts the user service API.
func RegisterUser(r *router.Router, c *controllers.AuthController) {
	r.Post("/register", "users.register", ctx.Wrap(c.Register))
	r.Post("/login", "users.login", ctx.Wrap(c.Login))
}

// RegisterProduct mounts the product service API.
func RegisterProduct(r *router.Router, c *controllers.ProductController) {
	r.Get("/products", "products.index", ctx.Wrap(c.Index))
	r.Get("/products/{id}", "products.show", ctx.Wrap(c.Show))
}

// RegisterOrder mounts the order service API. Every route requires a
// bearer token.
func RegisterOrder(r *router.Router, c *controllers.OrderController, tokens middleware.TokenValidator) {
	orders := r.Group("/orders", middleware.Auth(tokens))
	orders.Post("/", "orders.store", ctx.Wrap(c.Store))
	orders.Get("/", "orders.index", ctx.Wrap(c.Index))
	orders.Delete("/{id}", "orders.destroy", ctx.Wrap(c.Destroy))
}

// RegisterFrontend mounts the HTML pages.
func RegisterFrontend(r *router.Router, c *controllers.FrontendController) {
	r.Get("/", "home", ctx.Wrap(c.Home))
	r.Get("/register", "register.show", ctx.Wrap(c.ShowRegister))
	r.Post("/register", "register", ctx.Wrap(c.Register))
	r.Get("/login", "login.show", ctx.Wrap(c.ShowLogin))
	r.Post("/login", "login", ctx.Wrap(c.Login))
	r.Get("/logout", "logout", ctx.Wrap(c.Logout))
	r.Get("/orders", "orders", ctx.Wrap(c.Orders))
	r.Post("/order/{product_id}", "order.place", ctx.Wrap(c.PlaceOrder))
	r.Post("/orders/cancel/{order_id}", "order.cancel", ctx.Wrap(c.CancelOrder))
}
