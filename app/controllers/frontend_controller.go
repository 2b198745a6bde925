package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/views"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/session"
)

// AuthCookie carries the bearer token between the browser and the frontend.
const AuthCookie = "auth_token"

// Catalog lists products for the home page.
type Catalog interface {
	List(ctx context.Context) ([]models.Product, error)
}

// Accounts talks to the user service.
type Accounts interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
}

// Orders talks to the order service with the browser's token.
type Orders interface {
	Create(ctx context.Context, token string, productID uint, quantity int) (uint, error)
	List(ctx context.Context, token string) ([]models.Order, error)
	Cancel(ctx context.Context, token string, orderID uint) error
}

type pageData struct {
	LoggedIn bool
	Flashes  []session.Flash
	Products []models.Product
	Orders   []models.Order
}

// FrontendController renders the shop's HTML pages. It holds no business
// data; every page is assembled from the other services.
type FrontendController struct {
	products      Catalog
	accounts      Accounts
	orders        Orders
	secureCookies bool
}

func NewFrontendController(products Catalog, accounts Accounts, orders Orders, secureCookies bool) *FrontendController {
	return &FrontendController{
		products:      products,
		accounts:      accounts,
		orders:        orders,
		secureCookies: secureCookies,
	}
}

// Home handles GET /.
func (f *FrontendController) Home(c *ctx.Context) {
	products, err := f.products.List(c.Context())
	if err != nil {
		logger.WithCtx(c.Context()).Warn("frontend: list products", "error", err)
		session.FromCtx(c.R).Flash(session.Error, "Could not connect to the Product Service.")
	}

	f.render(c, "index", pageData{LoggedIn: f.token(c) != "", Products: products})
}

// ShowRegister handles GET /register.
func (f *FrontendController) ShowRegister(c *ctx.Context) {
	f.render(c, "register", pageData{})
}

// Register handles POST /register.
func (f *FrontendController) Register(c *ctx.Context) {
	sess := session.FromCtx(c.R)

	err := f.accounts.Register(c.Context(), c.PostForm("email"), c.R.FormValue("password"))
	if err == nil {
		sess.Flash(session.Success, "Registration successful! Please log in.")
		f.redirect(c, "/login")
		return
	}

	sess.Flash(session.Error, failureMessage(err, "User Service", "Registration failed."))
	f.render(c, "register", pageData{})
}

// ShowLogin handles GET /login.
func (f *FrontendController) ShowLogin(c *ctx.Context) {
	f.render(c, "login", pageData{})
}

// Login handles POST /login.
func (f *FrontendController) Login(c *ctx.Context) {
	sess := session.FromCtx(c.R)

	token, err := f.accounts.Login(c.Context(), c.PostForm("email"), c.R.FormValue("password"))
	if err != nil {
		sess.Flash(session.Error, failureMessage(err, "User Service", "Invalid credentials."))
		f.render(c, "login", pageData{})
		return
	}

	c.SetCookie(AuthCookie, token, 0, f.secureCookies)
	sess.Flash(session.Success, "Login successful!")
	f.redirect(c, "/")
}

// Logout handles GET /logout.
func (f *FrontendController) Logout(c *ctx.Context) {
	c.SetCookie(AuthCookie, "", -1, f.secureCookies)
	session.FromCtx(c.R).Flash(session.Success, "You have been logged out.")
	f.redirect(c, "/")
}

// Orders handles GET /orders.
func (f *FrontendController) Orders(c *ctx.Context) {
	token, ok := f.requireLogin(c, "You must be logged in to view your orders.")
	if !ok {
		return
	}

	orders, err := f.orders.List(c.Context(), token)
	if err != nil {
		msg := "Could not retrieve your orders."
		if apperr.KindOf(err) == apperr.KindUnavailable {
			msg = "Could not connect to the Order Service."
		}
		session.FromCtx(c.R).Flash(session.Error, msg)
	}

	f.render(c, "orders", pageData{LoggedIn: true, Orders: orders})
}

// PlaceOrder handles POST /order/{product_id}.
func (f *FrontendController) PlaceOrder(c *ctx.Context) {
	token, ok := f.requireLogin(c, "You must be logged in to place an order.")
	if !ok {
		return
	}
	sess := session.FromCtx(c.R)

	productID, ok := c.ParamUint("product_id")
	if !ok {
		sess.Flash(session.Error, "Order failed: Product not found")
		f.redirect(c, "/")
		return
	}

	quantity := 1
	if raw := c.PostForm("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			sess.Flash(session.Error, "Order failed: Quantity must be a positive integer")
			f.redirect(c, "/")
			return
		}
		quantity = n
	}

	orderID, err := f.orders.Create(c.Context(), token, productID, quantity)
	switch {
	case err == nil:
		sess.Flash(session.Success, fmt.Sprintf("Order #%d created successfully!", orderID))
	case isConnectFailure(err):
		sess.Flash(session.Error, "Could not connect to the Order Service.")
	default:
		sess.Flash(session.Error, "Order failed: "+apperr.Message(err))
	}
	f.redirect(c, "/")
}

// CancelOrder handles POST /orders/cancel/{order_id}.
func (f *FrontendController) CancelOrder(c *ctx.Context) {
	token, ok := f.requireLogin(c, "You must be logged in to cancel an order.")
	if !ok {
		return
	}
	sess := session.FromCtx(c.R)

	orderID, ok := c.ParamUint("order_id")
	if !ok {
		sess.Flash(session.Error, "Could not cancel order.")
		f.redirect(c, "/orders")
		return
	}

	if err := f.orders.Cancel(c.Context(), token, orderID); err != nil {
		sess.Flash(session.Error, failureMessage(err, "Order Service", "Could not cancel order."))
	} else {
		sess.Flash(session.Success, "Order cancelled successfully.")
	}
	f.redirect(c, "/orders")
}

// ─── helpers ──────────────────────────────────────────────────────────────────

func (f *FrontendController) token(c *ctx.Context) string {
	token, err := c.Cookie(AuthCookie)
	if err != nil {
		return ""
	}
	return token
}

func (f *FrontendController) requireLogin(c *ctx.Context, notice string) (string, bool) {
	token := f.token(c)
	if token == "" {
		session.FromCtx(c.R).Flash(session.Error, notice)
		f.redirect(c, "/login")
		return "", false
	}
	return token, true
}

// render drains pending flashes into the page. The session is saved before
// anything is written so its cookie makes it into the headers.
func (f *FrontendController) render(c *ctx.Context, page string, data pageData) {
	sess := session.FromCtx(c.R)
	data.Flashes = sess.Flashes()
	f.save(c, sess)
	c.HTML(http.StatusOK, views.Page(page), views.Layout, data)
}

func (f *FrontendController) redirect(c *ctx.Context, to string) {
	f.save(c, session.FromCtx(c.R))
	c.Redirect(http.StatusFound, to)
}

func (f *FrontendController) save(c *ctx.Context, sess *session.Session) {
	if err := sess.Save(c.Context(), c.W); err != nil {
		logger.WithCtx(c.Context()).Warn("frontend: save session", "error", err)
	}
}

// isConnectFailure reports whether the peer could not be reached at all, as
// opposed to answering with an error.
func isConnectFailure(err error) bool {
	var e *apperr.Error
	return errors.As(err, &e) && e.Kind == apperr.KindUnavailable && e.Err != nil
}

// failureMessage picks the flash text for a failed peer call: a connect
// notice when the peer was unreachable, else its own error message.
func failureMessage(err error, peer, fallback string) string {
	if isConnectFailure(err) {
		return "Could not connect to the " + peer + "."
	}
	if msg := apperr.Message(err); msg != "" && apperr.KindOf(err) != apperr.KindInternal {
		return msg
	}
	return fallback
}
