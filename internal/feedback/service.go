package feedback

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/product"
)

type Catalog interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
}

type Service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Submit records the user's rating for a product.
func (s *Service) Submit(ctx context.Context, userID, productID, rating int, comment string) (Feedback, error) {
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return Feedback{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	return s.repo.Upsert(ctx, Feedback{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *Service) ForProduct(ctx context.Context, productID int) (Summary, error) {
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return Summary{}, err
	}
	items, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{ProductID: productID, Count: len(items), Items: items}
	if len(items) > 0 {
		sum := 0
		for _, fb := range items {
			sum += fb.Rating
		}
		summary.AverageRating = math.Round(float64(sum)/float64(len(items))*100) / 100
	}
	return summary, nil
}
