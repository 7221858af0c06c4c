package preference

import (
	"context"
	"sync"
)

type Repository interface {
	Load(ctx context.Context, userID int) (State, error)
	// Save stores v for the pair. Neutral removes any stored preference.
	Save(ctx context.Context, userID, productID int, v Value) error
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	states map[int]State
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{states: make(map[int]State)}
}

func (r *InMemoryRepository) Load(ctx context.Context, userID int) (State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := NewState()
	for id, v := range r.states[userID].prefs {
		out.Set(id, v)
	}
	return out, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, userID, productID int, v Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[userID]
	if !ok {
		st = NewState()
	}
	st.Set(productID, v)
	r.states[userID] = st
	return nil
}
