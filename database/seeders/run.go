// Package seeders fills a fresh product database with the demo catalog.
//
// Run via CLI: shop seed
package seeders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
)

// Catalog is the demo product set.
func Catalog() []models.Product {
	return []models.Product{
		{ID: 101, Name: "Wireless Mouse", Price: decimal.RequireFromString("24.99"), Stock: 150},
		{ID: 102, Name: "Mechanical Keyboard", Price: decimal.RequireFromString("79.99"), Stock: 75},
		{ID: 103, Name: "4K Webcam", Price: decimal.RequireFromString("129.50"), Stock: 40},
	}
}

// SeedCatalog inserts Catalog when the product table is empty. It reports
// how many rows were inserted.
func SeedCatalog(ctx context.Context, products repositories.ProductRepository) (int, error) {
	n, err := products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		logger.Debug("seed: catalog already present", "products", n)
		return 0, nil
	}

	inserted := 0
	for _, p := range Catalog() {
		p := p
		if err := products.Create(ctx, &p); err != nil {
			return inserted, fmt.Errorf("seed product %d: %w", p.ID, err)
		}
		inserted++
	}
	logger.Info("seed: catalog inserted", "products", inserted)
	return inserted, nil
}
