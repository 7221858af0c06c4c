package cart

import (
	"context"
	"database/sql"
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const (
	listCartItemsQuery = `
		SELECT product_id, quantity, added_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY product_id
	`
	addCartItemQuery = `
		INSERT INTO cart_items (user_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`
	setCartItemQuery = `
		INSERT INTO cart_items (user_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity
	`
	removeCartItemQuery = `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`
	clearCartQuery      = `DELETE FROM cart_items WHERE user_id = $1`
)

func (r *PostgresRepository) Items(ctx context.Context, userID int) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, listCartItemsQuery, userID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		var (
			it      Item
			addedAt sql.NullString
		)
		if err := rows.Scan(&it.ProductID, &it.Quantity, &addedAt); err != nil {
			return nil, apperror.Storage(err)
		}
		it.AddedAt = addedAt.String
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage(err)
	}
	return out, nil
}

func (r *PostgresRepository) Add(ctx context.Context, userID, productID, qty int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx, addCartItemQuery, userID, productID, qty, now); err != nil {
		return apperror.Storage(err)
	}
	return nil
}

func (r *PostgresRepository) SetQuantity(ctx context.Context, userID, productID, qty int) error {
	if qty <= 0 {
		if _, err := r.db.ExecContext(ctx, removeCartItemQuery, userID, productID); err != nil {
			return apperror.Storage(err)
		}
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx, setCartItemQuery, userID, productID, qty, now); err != nil {
		return apperror.Storage(err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, productID int) error {
	result, err := r.db.ExecContext(ctx, removeCartItemQuery, userID, productID)
	if err != nil {
		return apperror.Storage(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage(err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID int) error {
	if _, err := r.db.ExecContext(ctx, clearCartQuery, userID); err != nil {
		return apperror.Storage(err)
	}
	return nil
}
