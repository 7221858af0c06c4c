// Package preference tracks which products a user likes or dislikes.
package preference

import (
	"sort"
	"strings"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
)

type Value string

const (
	Liked    Value = "liked"
	Disliked Value = "disliked"
	Neutral  Value = "neutral"
)

var ErrInvalidValue = apperror.Validation("preference must be one of: liked disliked neutral")

func ParseValue(s string) (Value, error) {
	switch v := Value(strings.ToLower(strings.TrimSpace(s))); v {
	case Liked, Disliked, Neutral:
		return v, nil
	default:
		return "", ErrInvalidValue
	}
}

// State holds one user's liked and disliked products. A product is in at most
// one of the two sets; Set is the only way to change either.
type State struct {
	prefs map[int]Value
}

func NewState() State {
	return State{prefs: make(map[int]Value)}
}

// Set records v for productID. Neutral forgets the product.
func (s *State) Set(productID int, v Value) {
	if s.prefs == nil {
		s.prefs = make(map[int]Value)
	}
	if v == Neutral {
		delete(s.prefs, productID)
		return
	}
	s.prefs[productID] = v
}

func (s State) Get(productID int) Value {
	if v, ok := s.prefs[productID]; ok {
		return v
	}
	return Neutral
}

// Liked returns the liked product ids in ascending order.
func (s State) Liked() []int { return s.ids(Liked) }

// Disliked returns the disliked product ids in ascending order.
func (s State) Disliked() []int { return s.ids(Disliked) }

func (s State) ids(want Value) []int {
	out := make([]int, 0)
	for id, v := range s.prefs {
		if v == want {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
