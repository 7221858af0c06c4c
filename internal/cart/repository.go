package cart

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
)

var (
	ErrItemNotFound = apperror.NotFound("product is not in the cart")
)

// Repository stores quantities per (user, product).
type Repository interface {
	// Items returns the user's cart ordered by product id.
	Items(ctx context.Context, userID int) ([]Item, error)
	// Add increments the quantity, creating the row when needed.
	Add(ctx context.Context, userID, productID, qty int) error
	// SetQuantity overwrites the quantity. Zero removes the row.
	SetQuantity(ctx context.Context, userID, productID, qty int) error
	Remove(ctx context.Context, userID, productID int) error
	Clear(ctx context.Context, userID int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int]map[int]Item
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[int]map[int]Item)}
}

func (r *InMemoryRepository) Items(ctx context.Context, userID int) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Item, 0, len(r.carts[userID]))
	for _, it := range r.carts[userID] {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *InMemoryRepository) Add(ctx context.Context, userID, productID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.cart(userID)
	it, ok := cart[productID]
	if !ok {
		it = Item{ProductID: productID, AddedAt: time.Now().UTC().Format(time.RFC3339)}
	}
	it.Quantity += qty
	cart[productID] = it
	return nil
}

func (r *InMemoryRepository) SetQuantity(ctx context.Context, userID, productID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.cart(userID)
	if qty <= 0 {
		delete(cart, productID)
		return nil
	}
	it, ok := cart[productID]
	if !ok {
		it = Item{ProductID: productID, AddedAt: time.Now().UTC().Format(time.RFC3339)}
	}
	it.Quantity = qty
	cart[productID] = it
	return nil
}

func (r *InMemoryRepository) Remove(ctx context.Context, userID, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.cart(userID)
	if _, ok := cart[productID]; !ok {
		return ErrItemNotFound
	}
	delete(cart, productID)
	return nil
}

func (r *InMemoryRepository) Clear(ctx context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}

// cart must be called with the write lock held.
func (r *InMemoryRepository) cart(userID int) map[int]Item {
	c, ok := r.carts[userID]
	if !ok {
		c = make(map[int]Item)
		r.carts[userID] = c
	}
	return c
}
