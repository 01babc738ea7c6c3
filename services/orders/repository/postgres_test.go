package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omondi/sokocart/internal/pkg/models"
	"github.com/omondi/sokocart/services/orders"
)

var orderTestColumns = []string{
	"id", "customer_email", "customer_phone", "reference", "total_amount",
	"payment_method", "merchant_request_id", "payment_status",
	"payment_reason", "status", "created_at", "updated_at",
}

func setupMockRepo(t *testing.T) (*OrderRepo, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewOrderRepository(&models.Config{}, db), mock
}

func orderRow(id uuid.UUID, reference string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderTestColumns).AddRow(
		id, "jane@example.com", "254712345678", reference, 2500,
		models.PaymentMethodMpesa, "29115-1", "", "",
		string(models.OrderStatusPending), now, now,
	)
}

func TestCreateOrder(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))

	order := &models.Order{
		ID:            uuid.New(),
		CustomerEmail: "jane@example.com",
		CustomerPhone: "254712345678",
		Reference:     "ORD-1001",
		TotalAmount:   2500,
		PaymentMethod: models.PaymentMethodMpesa,
	}

	err := repo.CreateOrder(context.Background(), order)

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder(t *testing.T) {
	repo, mock := setupMockRepo(t)

	orderID := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(orderID).
		WillReturnRows(orderRow(orderID, "ORD-1001"))

	order, err := repo.GetOrder(context.Background(), orderID)

	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, "ORD-1001", order.Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder_NotFound(t *testing.T) {
	repo, mock := setupMockRepo(t)

	orderID := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(orderID).
		WillReturnError(sql.ErrNoRows)

	order, err := repo.GetOrder(context.Background(), orderID)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestGetOrderByReference(t *testing.T) {
	repo, mock := setupMockRepo(t)

	orderID := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("ORD-1001").
		WillReturnRows(orderRow(orderID, "ORD-1001"))

	order, err := repo.GetOrderByReference(context.Background(), "ORD-1001")

	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentOutcome(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs("ORD-1001", string(models.TransactionStatusSuccess), "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePaymentOutcome(context.Background(), "ORD-1001",
		string(models.TransactionStatusSuccess), "")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentOutcome_UnknownReference(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePaymentOutcome(context.Background(), "ORD-ghost",
		string(models.TransactionStatusFailed), "timeout")

	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestUpdatePaymentOutcome_DBError(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectExec("UPDATE orders").
		WillReturnError(errors.New("connection refused"))

	err := repo.UpdatePaymentOutcome(context.Background(), "ORD-1001",
		string(models.TransactionStatusFailed), "timeout")

	assert.Error(t, err)
}
