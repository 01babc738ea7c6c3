package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omondi/sokocart/internal/pkg/models"
	"github.com/omondi/sokocart/services/payments"
)

var txColumns = []string{
	"merchant_request_id", "checkout_request_id", "order_reference",
	"phone_number", "amount", "status", "result_code", "failure_reason",
	"mpesa_receipt", "created_at", "updated_at",
}

func setupMockRepo(t *testing.T) (*PaymentRepo, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	cfg := &models.Config{
		Payment: models.PaymentConfig{StatusCacheTTLMinutes: 30},
	}

	// Redis is nil: cache reads miss and cache writes are skipped
	return NewPaymentRepository(cfg, db, nil), mock
}

func pendingRow(merchantRequestID string, createdAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(txColumns).AddRow(
		merchantRequestID, "ws_CO_1", "ORD-1001", "254712345678", 1500,
		string(models.TransactionStatusPending), nil, "", "", createdAt, createdAt,
	)
}

func TestCreateTransaction(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx := &models.Transaction{
		MerchantRequestID: "29115-1",
		CheckoutRequestID: "ws_CO_1",
		OrderReference:    "ORD-1001",
		PhoneNumber:       "254712345678",
		Amount:            1500,
	}

	err := repo.CreateTransaction(context.Background(), tx)

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	assert.False(t, tx.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaction_DBError(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectExec("INSERT INTO transactions").
		WillReturnError(errors.New("duplicate key value violates unique constraint"))

	err := repo.CreateTransaction(context.Background(), &models.Transaction{
		MerchantRequestID: "29115-1",
	})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransaction(t *testing.T) {
	repo, mock := setupMockRepo(t)

	createdAt := time.Now().Add(-time.Minute)
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("29115-1").
		WillReturnRows(pendingRow("29115-1", createdAt))

	tx, err := repo.GetTransaction(context.Background(), "29115-1")

	require.NoError(t, err)
	assert.Equal(t, "29115-1", tx.MerchantRequestID)
	assert.Equal(t, "ORD-1001", tx.OrderReference)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransaction_NotFound(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("nonexistent").
		WillReturnError(sql.ErrNoRows)

	tx, err := repo.GetTransaction(context.Background(), "nonexistent")

	assert.Nil(t, tx)
	assert.ErrorIs(t, err, payments.ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatus_PendingToSuccess(t *testing.T) {
	repo, mock := setupMockRepo(t)

	now := time.Now()
	resultCode := 0
	rows := sqlmock.NewRows(txColumns).AddRow(
		"29115-1", "ws_CO_1", "ORD-1001", "254712345678", 1500,
		string(models.TransactionStatusSuccess), resultCode, "", "NLJ7RT61SV",
		now.Add(-time.Minute), now,
	)

	mock.ExpectQuery("UPDATE transactions").
		WithArgs("29115-1", string(models.TransactionStatusSuccess), sqlmock.AnyArg(), "", "NLJ7RT61SV", string(models.TransactionStatusPending)).
		WillReturnRows(rows)

	tx, changed, err := repo.TransitionStatus(context.Background(), "29115-1",
		models.TransactionStatusSuccess, &resultCode, "", "NLJ7RT61SV")

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status)
	assert.Equal(t, "NLJ7RT61SV", tx.MpesaReceipt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatus_AlreadyTerminal(t *testing.T) {
	repo, mock := setupMockRepo(t)

	// The conditional update matches nothing, then the existing terminal
	// row is read back
	mock.ExpectQuery("UPDATE transactions").
		WillReturnError(sql.ErrNoRows)

	now := time.Now()
	resultCode := 0
	terminalRow := sqlmock.NewRows(txColumns).AddRow(
		"29115-1", "ws_CO_1", "ORD-1001", "254712345678", 1500,
		string(models.TransactionStatusSuccess), resultCode, "", "NLJ7RT61SV",
		now.Add(-time.Minute), now,
	)
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("29115-1").
		WillReturnRows(terminalRow)

	tx, changed, err := repo.TransitionStatus(context.Background(), "29115-1",
		models.TransactionStatusFailed, nil, "Request cancelled by user", "")

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatus_UnknownTransaction(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectQuery("UPDATE transactions").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("ghost-1").
		WillReturnError(sql.ErrNoRows)

	tx, changed, err := repo.TransitionStatus(context.Background(), "ghost-1",
		models.TransactionStatusFailed, nil, "timeout", "")

	assert.Nil(t, tx)
	assert.False(t, changed)
	assert.ErrorIs(t, err, payments.ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatus_RejectsNonTerminalTarget(t *testing.T) {
	repo, _ := setupMockRepo(t)

	tx, changed, err := repo.TransitionStatus(context.Background(), "29115-1",
		models.TransactionStatusPending, nil, "", "")

	assert.Nil(t, tx)
	assert.False(t, changed)
	assert.Error(t, err)
}

func TestListExpiredPending(t *testing.T) {
	repo, mock := setupMockRepo(t)

	cutoff := time.Now().Add(-5 * time.Minute)
	old := cutoff.Add(-time.Minute)

	rows := sqlmock.NewRows(txColumns).
		AddRow("old-1", "ws_CO_1", "ORD-1", "254712345678", 100,
			string(models.TransactionStatusPending), nil, "", "", old, old).
		AddRow("old-2", "ws_CO_2", "ORD-2", "254712345679", 200,
			string(models.TransactionStatusPending), nil, "", "", old, old)

	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs(string(models.TransactionStatusPending), cutoff, 100).
		WillReturnRows(rows)

	txs, err := repo.ListExpiredPending(context.Background(), cutoff, 100)

	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "old-1", txs[0].MerchantRequestID)
	assert.Equal(t, "old-2", txs[1].MerchantRequestID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListExpiredPending_Empty(t *testing.T) {
	repo, mock := setupMockRepo(t)

	cutoff := time.Now().Add(-5 * time.Minute)
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WillReturnRows(sqlmock.NewRows(txColumns))

	txs, err := repo.ListExpiredPending(context.Background(), cutoff, 100)

	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
