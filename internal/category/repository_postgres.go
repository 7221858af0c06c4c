package category

import (
	"context"
	"database/sql"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const listCategoriesQuery = `
	SELECT category, COUNT(*)
	FROM products
	WHERE category <> ''
	GROUP BY category
	ORDER BY category
	LIMIT $1
`

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesQuery, limit)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var item Category
		if err := rows.Scan(&item.Name, &item.ProductCount); err != nil {
			return nil, apperror.Storage(err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage(err)
	}
	return out, nil
}
