package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
)

// ── Users ────────────────────────────────────────────────────────────────────

type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID uint
	byMail map[string]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{nextID: 1, byMail: map[string]models.User{}}
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byMail[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byMail[user.Email]; ok {
		return ErrDuplicate
	}
	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.byMail[user.Email] = *user
	return nil
}

// ── Products ─────────────────────────────────────────────────────────────────

type MemoryProductRepository struct {
	mu       sync.RWMutex
	nextID   uint
	products map[uint]models.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{nextID: 1, products: map[uint]models.Product{}}
}

func (r *MemoryProductRepository) All(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id uint) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == 0 {
		product.ID = r.nextID
	}
	if _, ok := r.products[product.ID]; ok {
		return ErrDuplicate
	}
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

type MemoryOrderRepository struct {
	mu     sync.RWMutex
	nextID uint
	orders map[uint]models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{nextID: 1, orders: map[uint]models.Order{}}
}

func (r *MemoryOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = r.nextID
	r.nextID++
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *MemoryOrderRepository) ForUser(_ context.Context, userID uint) ([]models.Order, error) {
	r.mu.RLock()
	out := []models.Order{}
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryOrderRepository) DeleteOwned(_ context.Context, id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.UserID != userID {
		return ErrNotFound
	}
	delete(r.orders, id)
	return nil
}
