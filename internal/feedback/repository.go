package feedback

import (
	"context"
	"sync"
)

type Repository interface {
	// Upsert stores fb, replacing any earlier feedback by the same user on the
	// same product. The original creation time is kept.
	Upsert(ctx context.Context, fb Feedback) (Feedback, error)
	// ListByProduct returns feedback for a product, most recently updated first.
	ListByProduct(ctx context.Context, productID int) ([]Feedback, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	items  []Feedback
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Upsert(ctx context.Context, fb Feedback) (Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.items {
		if existing.UserID == fb.UserID && existing.ProductID == fb.ProductID {
			fb.ID = existing.ID
			fb.CreatedAt = existing.CreatedAt
			// move to the end so listing stays ordered by update
			r.items = append(r.items[:i], r.items[i+1:]...)
			r.items = append(r.items, fb)
			return fb, nil
		}
	}

	fb.ID = r.nextID
	r.nextID++
	r.items = append(r.items, fb)
	return fb, nil
}

func (r *InMemoryRepository) ListByProduct(ctx context.Context, productID int) ([]Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Feedback, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].ProductID == productID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}
