package category

import "context"

const defaultLimit = 100

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns up to limit categories. A non-positive limit means the default.
func (s *Service) List(ctx context.Context, limit int) ([]Category, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.repo.List(ctx, limit)
}
