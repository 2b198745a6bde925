package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Index handles GET /products.
func (p *ProductController) Index(c *ctx.Context) {
	products, err := p.catalog.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(products)
}

// Show handles GET /products/{id}.
func (p *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Error(http.StatusNotFound, "Product not found")
		return
	}

	product, err := p.catalog.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(product)
}
