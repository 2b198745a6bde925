package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/event"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/metrics"
	"github.com/shashiranjanraj/kashvi-shop/pkg/validate"
)

// Events fired by OrderService. The payload is the models.Order.
const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
)

const (
	msgOrderFieldsRequired = "Product ID and quantity are required"
	msgQuantityPositive    = "Quantity must be a positive integer"
	msgProductIDPositive   = "Product ID must be a positive integer"
	msgInsufficientStock   = "Insufficient stock"
	msgProductServiceDown  = "Could not connect to Product Service"
	msgOrderNotOwned       = "Order not found or you do not have permission to cancel it"
)

// ProductCatalog looks up a product in the product service. Implementations
// return an apperr NotFound for unknown ids and Unavailable for anything that
// prevented an answer.
type ProductCatalog interface {
	Product(ctx context.Context, id uint) (models.Product, error)
}

// CreateOrderInput is what a caller asks for. Zero means "not given".
type CreateOrderInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

// OrderService owns the order workflow.
type OrderService struct {
	orders  repositories.OrderRepository
	catalog ProductCatalog
	events  *event.Bus
}

func NewOrderService(orders repositories.OrderRepository, catalog ProductCatalog, events *event.Bus) *OrderService {
	if events == nil {
		events = event.NewBus()
	}
	return &OrderService{orders: orders, catalog: catalog, events: events}
}

// Create validates the request, reads the product from the catalog, checks
// stock and stores the order with a snapshot of name and total.
//
// The stock check is advisory: nothing is reserved or decremented, so
// concurrent orders may all pass it.
func (s *OrderService) Create(ctx context.Context, userID uint, in CreateOrderInput) (models.Order, error) {
	if errs := validate.Struct(in); errs != nil {
		return models.Order{}, apperr.InvalidInput(orderInputMessage(errs))
	}

	product, err := s.catalog.Product(ctx, uint(in.ProductID))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			metrics.RecordOrder("product_not_found")
			return models.Order{}, apperr.NotFound(msgProductNotFound)
		}
		metrics.RecordOrder("product_unavailable")
		return models.Order{}, apperr.Unavailable(msgProductServiceDown+": "+cause(err), err)
	}

	if int64(product.Stock) < in.Quantity {
		metrics.RecordOrder("insufficient_stock")
		return models.Order{}, apperr.InsufficientStock(msgInsufficientStock)
	}

	order := models.Order{
		UserID:      userID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    int(in.Quantity),
		TotalPrice:  product.Price.Mul(decimal.NewFromInt(in.Quantity)),
	}
	if err := s.orders.Create(ctx, &order); err != nil {
		return models.Order{}, apperr.Internal(err)
	}

	s.events.Fire(ctx, EventOrderCreated, order)
	return order, nil
}

// ListForUser returns only the caller's orders.
func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.orders.ForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

// Cancel deletes the order iff the caller owns it. A foreign order is
// reported exactly like a missing one.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uint) error {
	err := s.orders.DeleteOwned(ctx, orderID, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.RecordOrder("cancel_not_found")
		return apperr.NotFound(msgOrderNotOwned)
	}
	if err != nil {
		return apperr.Internal(err)
	}

	s.events.Fire(ctx, EventOrderCancelled, models.Order{ID: orderID, UserID: userID})
	return nil
}

// RegisterOrderListeners attaches the default order event listeners:
// an audit log line and the outcome counter.
func RegisterOrderListeners(bus *event.Bus) {
	bus.Listen(EventOrderCreated, func(ctx context.Context, payload any) {
		o, _ := payload.(models.Order)
		metrics.RecordOrder("created")
		logger.WithCtx(ctx).Info("order created",
			"order_id", o.ID,
			"user_id", o.UserID,
			"product_id", o.ProductID,
			"quantity", o.Quantity,
			"total_price", o.TotalPrice.StringFixed(2),
		)
	})
	bus.Listen(EventOrderCancelled, func(ctx context.Context, payload any) {
		o, _ := payload.(models.Order)
		metrics.RecordOrder("cancelled")
		logger.WithCtx(ctx).Info("order cancelled", "order_id", o.ID, "user_id", o.UserID)
	})
}

// cause returns the innermost useful text of a catalog error.
func cause(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Message
	}
	return err.Error()
}

// orderInputMessage reports a missing field before a non-positive one, and
// product_id before quantity.
func orderInputMessage(errs validate.Errors) string {
	if errs.Failed("required") {
		return msgOrderFieldsRequired
	}
	if _, ok := errs.Field("product_id"); ok {
		return msgProductIDPositive
	}
	return msgQuantityPositive
}
