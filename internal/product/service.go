package product

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the catalog, optionally narrowed to one category.
func (s *Service) List(ctx context.Context, category string) ([]Product, error) {
	if category = strings.TrimSpace(category); category != "" {
		return s.repo.ListByCategory(ctx, category)
	}
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByIDs(ctx context.Context, ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ctx, ids)
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	normalize(&p)
	p.ID = 0
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id int, p Product) (Product, error) {
	normalize(&p)
	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// ResetProducts replaces all products with the given list (used for dev / seeding).
func (s *Service) ResetProducts(ctx context.Context, products []Product) ([]Product, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	for i := range products {
		normalize(&products[i])
		products[i].ID = 0
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
	}
	if err := s.repo.Reset(ctx, products); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func normalize(p *Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
}
