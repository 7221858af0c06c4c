package order

import (
	"context"
	"sync"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
)

var (
	ErrNotFound       = apperror.NotFound("order not found")
	ErrAlreadyPaid    = apperror.Conflict("order is already paid")
	ErrStatusConflict = apperror.Conflict("order status changed, please retry")
)

type Repository interface {
	Create(ctx context.Context, ord Order) (Order, error)
	GetByID(ctx context.Context, id int) (Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID int) ([]Order, error)
	// SetGatewayOrder records a new gateway order id and puts the order back
	// into pending_payment, only when its current status is one of from. It
	// returns ErrStatusConflict otherwise.
	SetGatewayOrder(ctx context.Context, id int, from []string, gatewayOrderID, updatedAt string) error
	// Transition moves the order to status only when its current status is one
	// of from. It returns ErrStatusConflict otherwise.
	Transition(ctx context.Context, id int, from []string, status, gatewayPaymentID, updatedAt string) (Order, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(ctx context.Context, ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord.ID = r.nextID
	r.nextID++
	ord.Items = append([]Item(nil), ord.Items...)
	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(ctx context.Context, userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) SetGatewayOrder(ctx context.Context, id int, from []string, gatewayOrderID, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID == id {
			if !contains(from, r.orders[i].Status) {
				return ErrStatusConflict
			}
			r.orders[i].GatewayOrderID = gatewayOrderID
			r.orders[i].Status = StatusPendingPayment
			r.orders[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Transition(ctx context.Context, id int, from []string, status, gatewayPaymentID, updatedAt string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID != id {
			continue
		}
		if !contains(from, r.orders[i].Status) {
			return Order{}, ErrStatusConflict
		}
		r.orders[i].Status = status
		if gatewayPaymentID != "" {
			r.orders[i].GatewayPaymentID = gatewayPaymentID
		}
		r.orders[i].UpdatedAt = updatedAt
		return r.orders[i], nil
	}
	return Order{}, ErrNotFound
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
