package cart

import (
	"context"

	"github.com/wichananm65/eco-shop-backend/internal/product"
)

// Catalog is the part of the product service the cart needs.
type Catalog interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
	ListByIDs(ctx context.Context, ids []int) ([]product.Product, error)
}

// Service orchestrates cart operations.
type Service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

func (s *Service) Get(ctx context.Context, userID int) (View, error) {
	items, err := s.repo.Items(ctx, userID)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, items)
}

// Items returns the raw stored rows. Order placement prices them itself.
func (s *Service) Items(ctx context.Context, userID int) ([]Item, error) {
	return s.repo.Items(ctx, userID)
}

func (s *Service) Add(ctx context.Context, userID, productID, qty int) (View, error) {
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return View{}, err
	}
	if err := s.repo.Add(ctx, userID, productID, qty); err != nil {
		return View{}, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) SetQuantity(ctx context.Context, userID, productID, qty int) (View, error) {
	if qty > 0 {
		if _, err := s.catalog.GetByID(ctx, productID); err != nil {
			return View{}, err
		}
	}
	if err := s.repo.SetQuantity(ctx, userID, productID, qty); err != nil {
		return View{}, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, productID int) (View, error) {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return View{}, err
	}
	return s.Get(ctx, userID)
}

// ClearCart empties a user's cart.
func (s *Service) ClearCart(ctx context.Context, userID int) error {
	return s.repo.Clear(ctx, userID)
}

// view prices items with the current catalog. Rows whose product has since
// been deleted are left out.
func (s *Service) view(ctx context.Context, items []Item) (View, error) {
	out := View{Items: make([]Line, 0, len(items))}
	if len(items) == 0 {
		return out, nil
	}

	ids := make([]int, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.catalog.ListByIDs(ctx, ids)
	if err != nil {
		return View{}, err
	}
	byID := make(map[int]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	mixed := false
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		line := Line{Product: p, Quantity: it.Quantity, LineTotal: p.Price * float64(it.Quantity)}
		out.Items = append(out.Items, line)
		out.ItemCount += it.Quantity
		out.Total += line.LineTotal
		if out.Currency == "" {
			out.Currency = p.Currency
		} else if out.Currency != p.Currency {
			mixed = true
		}
	}
	if mixed {
		out.Currency = ""
	}
	return out, nil
}
