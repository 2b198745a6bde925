package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	shophttp "github.com/shashiranjanraj/kashvi-shop/pkg/http"
)

// OrderClient acts on the order service on behalf of a token holder.
type OrderClient struct {
	peer
}

func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{peer: newPeer("Order Service", baseURL, timeout)}
}

// Create places an order and returns its id.
func (c *OrderClient) Create(ctx context.Context, token string, productID uint, quantity int) (uint, error) {
	resp, err := c.send(shophttp.Post(c.url("/orders")).
		WithContext(ctx).
		Bearer(token).
		Body(map[string]any{"product_id": productID, "quantity": quantity}))
	if err != nil {
		return 0, err
	}

	var body struct {
		OrderID uint `json:"order_id"`
	}
	if err := c.decode(resp, &body); err != nil {
		return 0, err
	}
	return body.OrderID, nil
}

func (c *OrderClient) List(ctx context.Context, token string) ([]models.Order, error) {
	resp, err := c.send(shophttp.Get(c.url("/orders")).WithContext(ctx).Bearer(token))
	if err != nil {
		return nil, err
	}

	orders := []models.Order{}
	if err := c.decode(resp, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *OrderClient) Cancel(ctx context.Context, token string, orderID uint) error {
	_, err := c.send(shophttp.Delete(c.url(fmt.Sprintf("/orders/%d", orderID))).WithContext(ctx).Bearer(token))
	return err
}
