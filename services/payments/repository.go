package payments

import (
	"context"
	"time"

	"github.com/omondi/sokocart/internal/pkg/models"
)

// PaymentRepo defines the transaction ledger contract. The ledger is the
// single source of truth for what happened to a payment attempt.
type PaymentRepo interface {
	// CreateTransaction inserts a new PENDING transaction keyed by the
	// provider-assigned merchant request ID
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// GetTransaction returns the transaction for the merchant request ID,
	// or ErrTransactionNotFound
	GetTransaction(ctx context.Context, merchantRequestID string) (*models.Transaction, error)

	// TransitionStatus atomically moves a PENDING transaction to a terminal
	// status. If the record is already terminal the stored row is returned
	// unchanged with changed=false; duplicate callback deliveries are a
	// no-op. Returns ErrTransactionNotFound when no record exists.
	TransitionStatus(ctx context.Context, merchantRequestID string, status models.TransactionStatus, resultCode *int, reason, receipt string) (tx *models.Transaction, changed bool, err error)

	// ListExpiredPending returns PENDING transactions created before the
	// cutoff, oldest first
	ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*models.Transaction, error)
}
