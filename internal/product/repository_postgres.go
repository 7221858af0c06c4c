package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	productColumns = `id, name, description, category, sustainability_score, price, currency, image, created_at, updated_at`

	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY id
	`
	listProductsByCategoryQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = $1
		ORDER BY id
	`
	listProductsByIDsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1::bigint[])
		ORDER BY id
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO products (name, description, category, sustainability_score, price, currency, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			description = $2,
			category = $3,
			sustainability_score = $4,
			price = $5,
			currency = $6,
			image = $7,
			updated_at = $8
		WHERE id = $9
		RETURNING created_at
	`
	deleteProductQuery    = `DELETE FROM products WHERE id = $1`
	truncateProductsQuery = `TRUNCATE products RESTART IDENTITY CASCADE`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	return r.query(ctx, listProductsQuery)
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return r.query(ctx, listProductsByCategoryQuery, category)
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	arr := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		arr[i] = int64(id)
	}
	return r.query(ctx, listProductsByIDsQuery, arr)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, apperror.Storage(err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	var id int
	err := r.db.QueryRowContext(ctx, insertProductQuery,
		p.Name,
		p.Description,
		p.Category,
		p.SustainabilityScore,
		p.Price,
		p.Currency,
		nullString(p.Image),
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return Product{}, apperror.Storage(err)
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, p Product) (Product, error) {
	var createdAt sql.NullString
	err := r.db.QueryRowContext(ctx, updateProductQuery,
		p.Name,
		p.Description,
		p.Category,
		p.SustainabilityScore,
		p.Price,
		p.Currency,
		nullString(p.Image),
		p.UpdatedAt,
		id,
	).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, apperror.Storage(err)
	}
	p.ID = id
	p.CreatedAt = createdAt.String
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return apperror.Storage(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage(err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset truncates the catalog and inserts products in a single transaction.
func (r *PostgresRepository) Reset(ctx context.Context, products []Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Storage(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, truncateProductsQuery); err != nil {
		return apperror.Storage(err)
	}
	for _, p := range products {
		if _, err := tx.ExecContext(ctx, insertProductQuery,
			p.Name, p.Description, p.Category, p.SustainabilityScore, p.Price, p.Currency,
			nullString(p.Image), p.CreatedAt, p.UpdatedAt,
		); err != nil {
			return apperror.Storage(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperror.Storage(err)
	}
	return nil
}

func (r *PostgresRepository) query(ctx context.Context, q string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperror.Storage(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage(err)
	}
	return out, nil
}

func scanProduct(scanner rowScanner) (Product, error) {
	var (
		p         Product
		image     sql.NullString
		createdAt sql.NullString
		updatedAt sql.NullString
	)
	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.SustainabilityScore,
		&p.Price,
		&p.Currency,
		&image,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Product{}, err
	}
	if image.Valid {
		p.Image = &image.String
	}
	p.CreatedAt = createdAt.String
	p.UpdatedAt = updatedAt.String
	return p, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
