package seeders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/database/seeders"
)

func TestSeedCatalogOnce(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryProductRepository()

	n, err := seeders.SeedCatalog(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = seeders.SeedCatalog(ctx, repo)
	require.NoError(t, err)
	assert.Zero(t, n)

	keyboard, err := repo.FindByID(ctx, 102)
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", keyboard.Name)
	assert.Equal(t, "79.99", keyboard.Price.StringFixed(2))
	assert.Equal(t, 75, keyboard.Stock)
}
