package feedback

import (
	"context"
	"database/sql"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const (
	upsertFeedbackQuery = `
		INSERT INTO feedback (user_id, product_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	listFeedbackByProductQuery = `
		SELECT id, user_id, product_id, rating, comment, created_at, updated_at
		FROM feedback
		WHERE product_id = $1
		ORDER BY updated_at DESC, id DESC
	`
)

func (r *PostgresRepository) Upsert(ctx context.Context, fb Feedback) (Feedback, error) {
	var createdAt sql.NullString
	err := r.db.QueryRowContext(ctx, upsertFeedbackQuery,
		fb.UserID, fb.ProductID, fb.Rating, fb.Comment, fb.CreatedAt, fb.UpdatedAt,
	).Scan(&fb.ID, &createdAt)
	if err != nil {
		return Feedback{}, apperror.Storage(err)
	}
	fb.CreatedAt = createdAt.String
	return fb, nil
}

func (r *PostgresRepository) ListByProduct(ctx context.Context, productID int) ([]Feedback, error) {
	rows, err := r.db.QueryContext(ctx, listFeedbackByProductQuery, productID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	defer rows.Close()

	out := make([]Feedback, 0)
	for rows.Next() {
		var (
			fb        Feedback
			createdAt sql.NullString
			updatedAt sql.NullString
		)
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.ProductID, &fb.Rating, &fb.Comment, &createdAt, &updatedAt); err != nil {
			return nil, apperror.Storage(err)
		}
		fb.CreatedAt = createdAt.String
		fb.UpdatedAt = updatedAt.String
		out = append(out, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage(err)
	}
	return out, nil
}
