package category

import (
	"context"
	"sort"

	"github.com/wichananm65/eco-shop-backend/internal/product"
)

type Repository interface {
	// List returns categories ordered by name, at most limit of them.
	List(ctx context.Context, limit int) ([]Category, error)
}

type catalogLister interface {
	List(ctx context.Context) ([]product.Product, error)
}

// CatalogRepository derives categories from a product repository. It backs
// the in-memory setup used in tests and local runs.
type CatalogRepository struct {
	products catalogLister
}

func NewCatalogRepository(products catalogLister) *CatalogRepository {
	return &CatalogRepository{products: products}
}

func (r *CatalogRepository) List(ctx context.Context, limit int) ([]Category, error) {
	products, err := r.products.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		counts[p.Category]++
	}

	out := make([]Category, 0, len(counts))
	for name, n := range counts {
		out = append(out, Category{Name: name, ProductCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
