package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
)

// OrderController serves the order API. Every route sits behind
// middleware.Auth, so the caller id is always present.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Store handles POST /orders.
func (o *OrderController) Store(c *ctx.Context) {
	userID, ok := c.UserID()
	if !ok {
		c.Error(http.StatusUnauthorized, "Token is missing")
		return
	}

	var input services.CreateOrderInput
	if !c.BindJSON(&input) {
		return
	}

	order, err := o.orders.Create(c.Context(), userID, input)
	if err != nil {
		c.Fail(err)
		return
	}

	c.Created(map[string]any{
		"message":  "Order created successfully",
		"order_id": order.ID,
	})
}

// Index handles GET /orders.
func (o *OrderController) Index(c *ctx.Context) {
	userID, ok := c.UserID()
	if !ok {
		c.Error(http.StatusUnauthorized, "Token is missing")
		return
	}

	orders, err := o.orders.ListForUser(c.Context(), userID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

// Destroy handles DELETE /orders/{id}.
func (o *OrderController) Destroy(c *ctx.Context) {
	userID, ok := c.UserID()
	if !ok {
		c.Error(http.StatusUnauthorized, "Token is missing")
		return
	}

	id, ok := c.ParamUint("id")
	if !ok {
		c.Error(http.StatusNotFound, "Order not found or you do not have permission to cancel it")
		return
	}

	if err := o.orders.Cancel(c.Context(), userID, id); err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusOK, "Order cancelled successfully")
}
