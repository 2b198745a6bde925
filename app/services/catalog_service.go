package services

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
)

const msgProductNotFound = "Product not found"

// CatalogService is the read side of the product service.
type CatalogService struct {
	products repositories.ProductRepository
}

func NewCatalogService(products repositories.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Product{}, apperr.NotFound(msgProductNotFound)
	}
	if err != nil {
		return models.Product{}, apperr.Internal(err)
	}
	return p, nil
}
