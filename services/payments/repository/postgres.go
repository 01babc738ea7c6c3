package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/omondi/sokocart/internal/pkg/database"
	"github.com/omondi/sokocart/internal/pkg/models"
	"github.com/omondi/sokocart/services/payments"
)

// PaymentRepo implements the payments.PaymentRepo ledger contract against
// PostgreSQL, with Redis as a read-through cache for status polling
type PaymentRepo struct {
	cfg         *models.Config
	db          *sqlx.DB
	redisClient *database.RedisClient
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(cfg *models.Config, db *sqlx.DB, redisClient *database.RedisClient) *PaymentRepo {
	return &PaymentRepo{
		cfg:         cfg,
		db:          db,
		redisClient: redisClient,
	}
}

// CreateTransaction inserts a new PENDING transaction record
func (r *PaymentRepo) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	if tx.Status == "" {
		tx.Status = models.TransactionStatusPending
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO transactions (
			merchant_request_id, checkout_request_id, order_reference,
			phone_number, amount, status, created_at, updated_at
		) VALUES (
			:merchant_request_id, :checkout_request_id, :order_reference,
			:phone_number, :amount, :status, :created_at, :updated_at
		)
	`, tx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	r.cacheTransaction(ctx, tx)

	return nil
}

// GetTransaction retrieves a transaction by merchant request ID, consulting
// the cache before the database
func (r *PaymentRepo) GetTransaction(ctx context.Context, merchantRequestID string) (*models.Transaction, error) {
	if tx := r.cachedTransaction(ctx, merchantRequestID); tx != nil {
		return tx, nil
	}

	tx, err := r.getTransactionFromDB(ctx, merchantRequestID)
	if err != nil {
		return nil, err
	}

	r.cacheTransaction(ctx, tx)

	return tx, nil
}

func (r *PaymentRepo) getTransactionFromDB(ctx context.Context, merchantRequestID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.GetContext(ctx, &tx, `
		SELECT merchant_request_id, checkout_request_id, order_reference,
		       phone_number, amount, status, result_code, failure_reason,
		       mpesa_receipt, created_at, updated_at
		FROM transactions
		WHERE merchant_request_id = $1
	`, merchantRequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payments.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

// TransitionStatus atomically moves a PENDING transaction to a terminal
// status. The conditional update is the serialization point: of two
// concurrent callback deliveries for the same ID only one matches the
// PENDING guard; the other observes the already-terminal row and no-ops.
func (r *PaymentRepo) TransitionStatus(ctx context.Context, merchantRequestID string, status models.TransactionStatus, resultCode *int, reason, receipt string) (*models.Transaction, bool, error) {
	if !status.IsTerminal() {
		return nil, false, fmt.Errorf("invalid transition target: %s", status)
	}

	var tx models.Transaction
	err := r.db.QueryRowxContext(ctx, `
		UPDATE transactions
		SET status = $2,
		    result_code = $3,
		    failure_reason = $4,
		    mpesa_receipt = CASE WHEN $5 <> '' THEN $5 ELSE mpesa_receipt END,
		    updated_at = NOW()
		WHERE merchant_request_id = $1 AND status = $6
		RETURNING merchant_request_id, checkout_request_id, order_reference,
		          phone_number, amount, status, result_code, failure_reason,
		          mpesa_receipt, created_at, updated_at
	`, merchantRequestID, status, resultCode, reason, receipt, models.TransactionStatusPending).StructScan(&tx)

	if err == nil {
		r.cacheTransaction(ctx, &tx)
		return &tx, true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to transition transaction: %w", err)
	}

	// No PENDING row matched: either the record is already terminal
	// (idempotent delivery) or it never existed.
	existing, err := r.getTransactionFromDB(ctx, merchantRequestID)
	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

// ListExpiredPending returns PENDING transactions created before the cutoff
func (r *PaymentRepo) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*models.Transaction, error) {
	txs := []*models.Transaction{}
	err := r.db.SelectContext(ctx, &txs, `
		SELECT merchant_request_id, checkout_request_id, order_reference,
		       phone_number, amount, status, result_code, failure_reason,
		       mpesa_receipt, created_at, updated_at
		FROM transactions
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3
	`, models.TransactionStatusPending, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired pending transactions: %w", err)
	}

	return txs, nil
}
