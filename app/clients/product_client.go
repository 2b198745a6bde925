package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	shophttp "github.com/shashiranjanraj/kashvi-shop/pkg/http"
	"github.com/shashiranjanraj/kashvi-shop/pkg/metrics"
)

// ProductClient reads the catalog from the product service.
type ProductClient struct {
	peer
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{peer: newPeer("Product Service", baseURL, timeout)}
}

// Product fetches one product. Unknown ids are apperr NotFound.
func (c *ProductClient) Product(ctx context.Context, id uint) (models.Product, error) {
	start := time.Now()
	p, err := c.product(ctx, id)

	result := "ok"
	switch {
	case apperr.KindOf(err) == apperr.KindNotFound:
		result = "not_found"
	case err != nil:
		result = "error"
	}
	metrics.ObserveCatalogLookup(result, start)
	return p, err
}

func (c *ProductClient) product(ctx context.Context, id uint) (models.Product, error) {
	resp, err := c.send(shophttp.Get(c.url(fmt.Sprintf("/products/%d", id))).WithContext(ctx))
	if err != nil {
		return models.Product{}, err
	}

	var p models.Product
	if err := c.decode(resp, &p); err != nil {
		return models.Product{}, err
	}
	if p.ID == 0 {
		return models.Product{}, apperr.Unavailable(c.name+" unavailable", fmt.Errorf("product payload has no id"))
	}
	return p, nil
}

// List fetches the whole catalog.
func (c *ProductClient) List(ctx context.Context) ([]models.Product, error) {
	resp, err := c.send(shophttp.Get(c.url("/products")).WithContext(ctx))
	if err != nil {
		return nil, err
	}

	products := []models.Product{}
	if err := c.decode(resp, &products); err != nil {
		return nil, err
	}
	return products, nil
}
