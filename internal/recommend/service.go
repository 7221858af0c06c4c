package recommend

import (
	"context"
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
	"github.com/wichananm65/eco-shop-backend/internal/preference"
	"github.com/wichananm65/eco-shop-backend/internal/product"
	"github.com/wichananm65/eco-shop-backend/internal/user"
)

type Users interface {
	GetByID(ctx context.Context, id int) (user.User, error)
}

type Preferences interface {
	State(ctx context.Context, userID int) (preference.State, error)
}

type Catalog interface {
	List(ctx context.Context, category string) ([]product.Product, error)
}

type Service struct {
	users   Users
	prefs   Preferences
	catalog Catalog
	metrics *Metrics
}

// NewService builds the recommendation service. metrics may be nil.
func NewService(users Users, prefs Preferences, catalog Catalog, metrics *Metrics) *Service {
	return &Service{users: users, prefs: prefs, catalog: catalog, metrics: metrics}
}

// ForUser ranks the whole catalog for userID. Preferred categories are taken
// from the products the user currently likes.
func (s *Service) ForUser(ctx context.Context, userID int) ([]product.Product, error) {
	start := time.Now()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		s.metrics.observe(start, outcome(err), 0)
		return nil, err
	}
	st, err := s.prefs.State(ctx, userID)
	if err != nil {
		s.metrics.observe(start, outcome(err), 0)
		return nil, err
	}
	catalog, err := s.catalog.List(ctx, "")
	if err != nil {
		s.metrics.observe(start, outcome(err), 0)
		return nil, err
	}

	liked := st.Liked()
	likedSet := idSet(liked)
	likedProducts := make([]product.Product, 0, len(liked))
	for _, p := range catalog {
		if _, ok := likedSet[p.ID]; ok {
			likedProducts = append(likedProducts, p)
		}
	}

	out := Rank(Input{
		Liked:               liked,
		Disliked:            st.Disliked(),
		PreferredCategories: preference.PreferredCategories(likedProducts),
		Catalog:             catalog,
	}, DefaultLimit)

	s.metrics.observe(start, "ok", len(out))
	return out, nil
}

func outcome(err error) string {
	if apperror.KindOf(err) == apperror.KindNotFound {
		return "not_found"
	}
	return "error"
}
