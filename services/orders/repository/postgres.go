package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/omondi/sokocart/internal/pkg/models"
	"github.com/omondi/sokocart/services/orders"
)

const orderColumns = `id, customer_email, customer_phone, reference,
	total_amount, payment_method, merchant_request_id, payment_status,
	payment_reason, status, created_at, updated_at`

// OrderRepo implements orders.OrderRepo against PostgreSQL
type OrderRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(cfg *models.Config, db *sqlx.DB) *OrderRepo {
	return &OrderRepo{
		cfg: cfg,
		db:  db,
	}
}

// CreateOrder inserts a new order record
func (r *OrderRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO orders (
			id, customer_email, customer_phone, reference, total_amount,
			payment_method, merchant_request_id, payment_status,
			payment_reason, status, created_at, updated_at
		) VALUES (
			:id, :customer_email, :customer_phone, :reference, :total_amount,
			:payment_method, :merchant_request_id, :payment_status,
			:payment_reason, :status, :created_at, :updated_at
		)
	`, order)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetOrder retrieves an order by ID
func (r *OrderRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.GetContext(ctx, &order,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orders.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

// GetOrderByReference retrieves an order by its payment reference
func (r *OrderRepo) GetOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.db.GetContext(ctx, &order,
		`SELECT `+orderColumns+` FROM orders WHERE reference = $1`, reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orders.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by reference: %w", err)
	}

	return &order, nil
}

// UpdatePaymentOutcome records the payment result on the order's payment fields
func (r *OrderRepo) UpdatePaymentOutcome(ctx context.Context, reference, paymentStatus, paymentReason string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = $2, payment_reason = $3, updated_at = NOW()
		WHERE reference = $1
	`, reference, paymentStatus, paymentReason)
	if err != nil {
		return fmt.Errorf("failed to update payment outcome: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return orders.ErrOrderNotFound
	}

	return nil
}
