package migrations_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	_ "github.com/shashiranjanraj/kashvi-shop/database/migrations"
	"github.com/shashiranjanraj/kashvi-shop/pkg/database"
	"github.com/shashiranjanraj/kashvi-shop/pkg/migration"
)

func TestEachServiceOwnsItsTables(t *testing.T) {
	cases := map[string]any{
		"user":    &models.User{},
		"product": &models.Product{},
		"order":   &models.Order{},
	}

	for group, model := range cases {
		t.Run(group, func(t *testing.T) {
			db, err := database.Open("sqlite", "file::memory:")
			require.NoError(t, err)
			t.Cleanup(func() { _ = database.Close(db) })

			runner := migration.New(db, group)
			runner.Out = io.Discard
			require.NoError(t, runner.Run())
			assert.True(t, db.Migrator().HasTable(model))

			pending, err := runner.Pending()
			require.NoError(t, err)
			assert.Empty(t, pending)

			require.NoError(t, runner.Rollback())
			assert.False(t, db.Migrator().HasTable(model))
		})
	}
}
