// Package repositories is the storage boundary of the shop services. Every
// store has a gorm implementation and an in-memory one with the same
// behaviour.
package repositories

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
)

var (
	// ErrNotFound means no record matched.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means a unique key is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository stores users.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// Create assigns user.ID. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *models.User) error
}

// ProductRepository stores the catalog.
type ProductRepository interface {
	// All returns every product ordered by id.
	All(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uint) (models.Product, error)
	// Create keeps product.ID when set.
	Create(ctx context.Context, product *models.Product) error
	Count(ctx context.Context) (int64, error)
}

// OrderRepository stores orders.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// ForUser returns the user's orders ordered by id.
	ForUser(ctx context.Context, userID uint) ([]models.Order, error)
	// DeleteOwned removes the order only if it belongs to userID; otherwise
	// it returns ErrNotFound and leaves the store untouched.
	DeleteOwned(ctx context.Context, id, userID uint) error
}
