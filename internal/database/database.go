package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to Postgres through the pgx stdlib driver and verifies the
// connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'customer',
		two_factor_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		totp_secret TEXT,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		sustainability_score DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (sustainability_score >= 0),
		price DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (price >= 0),
		currency TEXT NOT NULL DEFAULT 'INR',
		image TEXT,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS products_category_idx ON products (category)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		product_id INT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		quantity INT NOT NULL CHECK (quantity > 0),
		added_at TEXT,
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		items JSONB NOT NULL DEFAULT '[]',
		total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		receipt TEXT NOT NULL,
		shipping_address TEXT NOT NULL DEFAULT '',
		gateway_order_id TEXT,
		gateway_payment_id TEXT,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS orders_user_idx ON orders (user_id)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		product_id INT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NOT NULL DEFAULT '',
		created_at TEXT,
		updated_at TEXT,
		UNIQUE (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_preferences (
		user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		product_id INT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		preference TEXT NOT NULL CHECK (preference IN ('liked', 'disliked')),
		updated_at TEXT,
		PRIMARY KEY (user_id, product_id)
	)`,
}

// EnsureSchema creates any missing tables. It is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
