package preference

import (
	"context"
	"sort"

	"github.com/wichananm65/eco-shop-backend/internal/product"
)

type Catalog interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
	ListByIDs(ctx context.Context, ids []int) ([]product.Product, error)
}

// View is the client-facing form of a user's preferences.
type View struct {
	Liked               []int    `json:"liked"`
	Disliked            []int    `json:"disliked"`
	PreferredCategories []string `json:"preferredCategories"`
}

type Service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

func (s *Service) State(ctx context.Context, userID int) (State, error) {
	return s.repo.Load(ctx, userID)
}

// Set changes the user's preference for one product and returns the result.
func (s *Service) Set(ctx context.Context, userID, productID int, v Value) (View, error) {
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return View{}, err
	}
	if err := s.repo.Save(ctx, userID, productID, v); err != nil {
		return View{}, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID int) (View, error) {
	st, err := s.repo.Load(ctx, userID)
	if err != nil {
		return View{}, err
	}
	liked := st.Liked()
	products, err := s.catalog.ListByIDs(ctx, liked)
	if err != nil {
		return View{}, err
	}
	return View{
		Liked:               liked,
		Disliked:            st.Disliked(),
		PreferredCategories: PreferredCategories(products),
	}, nil
}

// PreferredCategories derives the categories of liked products. It is
// recomputed on every read, so unliking a product drops its category unless
// another liked product shares it.
func PreferredCategories(liked []product.Product) []string {
	seen := make(map[string]struct{}, len(liked))
	out := make([]string, 0, len(liked))
	for _, p := range liked {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}
