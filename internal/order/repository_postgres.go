package order

import (
	"context"
	"database/sql"
	"encoding/json"
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

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const (
	orderColumns = `id, user_id, items, total_amount, currency, status, receipt, shipping_address, gateway_order_id, gateway_payment_id, created_at, updated_at`

	insertOrderQuery = `
		INSERT INTO orders (user_id, items, total_amount, currency, status, receipt, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	getOrderQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`
	listOrdersByUserQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY id DESC
	`
	setGatewayOrderQuery = `
		UPDATE orders
		SET gateway_order_id = $1, status = $2, updated_at = $3
		WHERE id = $4 AND status = ANY($5)
	`
	transitionOrderQuery = `
		UPDATE orders
		SET status = $1,
			gateway_payment_id = COALESCE(NULLIF($2, ''), gateway_payment_id),
			updated_at = $3
		WHERE id = $4 AND status = ANY($5)
		RETURNING ` + orderColumns
)

func (r *PostgresRepository) Create(ctx context.Context, ord Order) (Order, error) {
	itemsJSON, err := json.Marshal(ord.Items)
	if err != nil {
		return Order{}, err
	}

	err = r.db.QueryRowContext(ctx, insertOrderQuery,
		ord.UserID, itemsJSON, ord.TotalAmount, ord.Currency, ord.Status, ord.Receipt, ord.ShippingAddress, ord.CreatedAt, ord.UpdatedAt,
	).Scan(&ord.ID)
	if err != nil {
		return Order{}, apperror.Storage(err)
	}
	return ord, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Order, error) {
	ord, err := scanOrder(r.db.QueryRowContext(ctx, getOrderQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, apperror.Storage(err)
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersByUserQuery, userID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, apperror.Storage(err)
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage(err)
	}
	return orders, nil
}

func (r *PostgresRepository) SetGatewayOrder(ctx context.Context, id int, from []string, gatewayOrderID, updatedAt string) error {
	result, err := r.db.ExecContext(ctx, setGatewayOrderQuery, gatewayOrderID, StatusPendingPayment, updatedAt, id, pq.Array(from))
	if err != nil {
		return apperror.Storage(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage(err)
	}
	if affected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *PostgresRepository) Transition(ctx context.Context, id int, from []string, status, gatewayPaymentID, updatedAt string) (Order, error) {
	ord, err := scanOrder(r.db.QueryRowContext(ctx, transitionOrderQuery, status, gatewayPaymentID, updatedAt, id, pq.Array(from)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrStatusConflict
		}
		return Order{}, apperror.Storage(err)
	}
	return ord, nil
}

func scanOrder(scanner rowScanner) (Order, error) {
	var (
		ord              Order
		itemsJSON        []byte
		gatewayOrderID   sql.NullString
		gatewayPaymentID sql.NullString
		createdAt        sql.NullString
		updatedAt        sql.NullString
	)
	if err := scanner.Scan(
		&ord.ID,
		&ord.UserID,
		&itemsJSON,
		&ord.TotalAmount,
		&ord.Currency,
		&ord.Status,
		&ord.Receipt,
		&ord.ShippingAddress,
		&gatewayOrderID,
		&gatewayPaymentID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(itemsJSON, &ord.Items); err != nil {
		return Order{}, err
	}
	ord.GatewayOrderID = gatewayOrderID.String
	ord.GatewayPaymentID = gatewayPaymentID.String
	ord.CreatedAt = createdAt.String
	ord.UpdatedAt = updatedAt.String
	return ord, nil
}
