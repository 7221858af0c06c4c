package preference

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
	loadPreferencesQuery = `
		SELECT product_id, preference
		FROM user_preferences
		WHERE user_id = $1
	`
	upsertPreferenceQuery = `
		INSERT INTO user_preferences (user_id, product_id, preference, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET preference = EXCLUDED.preference, updated_at = EXCLUDED.updated_at
	`
	deletePreferenceQuery = `DELETE FROM user_preferences WHERE user_id = $1 AND product_id = $2`
)

func (r *PostgresRepository) Load(ctx context.Context, userID int) (State, error) {
	rows, err := r.db.QueryContext(ctx, loadPreferencesQuery, userID)
	if err != nil {
		return State{}, apperror.Storage(err)
	}
	defer rows.Close()

	st := NewState()
	for rows.Next() {
		var (
			productID int
			value     string
		)
		if err := rows.Scan(&productID, &value); err != nil {
			return State{}, apperror.Storage(err)
		}
		st.Set(productID, Value(value))
	}
	if err := rows.Err(); err != nil {
		return State{}, apperror.Storage(err)
	}
	return st, nil
}

func (r *PostgresRepository) Save(ctx context.Context, userID, productID int, v Value) error {
	var err error
	if v == Neutral {
		_, err = r.db.ExecContext(ctx, deletePreferenceQuery, userID, productID)
	} else {
		_, err = r.db.ExecContext(ctx, upsertPreferenceQuery, userID, productID, string(v), time.Now().UTC().Format(time.RFC3339))
	}
	if err != nil {
		return apperror.Storage(err)
	}
	return nil
}
