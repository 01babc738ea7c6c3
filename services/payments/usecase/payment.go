package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/internal/pkg/models"
	"github.com/omondi/sokocart/internal/utils"
	"github.com/omondi/sokocart/services/payments"
)

// PaymentUC implements the payments.PaymentUC interface
type PaymentUC struct {
	cfg  *models.Config
	repo payments.PaymentRepo
	gw   payments.PaymentGW
}

// NewPaymentUC creates a new payment use case
func NewPaymentUC(cfg *models.Config, repo payments.PaymentRepo, gw payments.PaymentGW) *PaymentUC {
	return &PaymentUC{
		cfg:  cfg,
		repo: repo,
		gw:   gw,
	}
}

// InitiatePayment starts an STK push with the provider and records the
// pending transaction. The ledger insert happens before success is returned
// to the caller, so a callback arriving immediately after always finds the
// record.
func (uc *PaymentUC) InitiatePayment(ctx context.Context, req *models.InitiatePaymentRequest) (*models.STKPushResponse, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if req.OrderReference == "" {
		return nil, fmt.Errorf("order reference is required")
	}

	valid, phoneNumber, err := utils.ValidateMSISDN(req.PhoneNumber)
	if !valid {
		return nil, fmt.Errorf("invalid phone number: %w", err)
	}

	resp, err := uc.gw.InitiateSTKPush(ctx, req.Amount, phoneNumber, req.OrderReference)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		MerchantRequestID: resp.MerchantRequestID,
		CheckoutRequestID: resp.CheckoutRequestID,
		OrderReference:    req.OrderReference,
		PhoneNumber:       phoneNumber,
		Amount:            req.Amount,
		Status:            models.TransactionStatusPending,
	}

	if err := uc.repo.CreateTransaction(ctx, tx); err != nil {
		// The provider accepted the push but we failed to record it; the
		// caller must not treat this as an initiated payment.
		return nil, fmt.Errorf("payment accepted by provider but not recorded: %w", err)
	}

	logger.Info("Payment initiated",
		logger.String("merchant_request_id", resp.MerchantRequestID),
		logger.String("checkout_request_id", resp.CheckoutRequestID),
		logger.String("order_reference", req.OrderReference),
		logger.Int("amount", req.Amount))

	return resp, nil
}

// HandleCallback processes an asynchronous provider callback and performs
// the ledger state transition. Duplicate deliveries and callbacks for
// already-terminal records are no-ops.
func (uc *PaymentUC) HandleCallback(ctx context.Context, callback *models.STKCallback) error {
	status := models.TransactionStatusFailed
	reason := callback.ResultDesc
	if callback.ResultCode == 0 {
		status = models.TransactionStatusSuccess
		reason = ""
	}

	resultCode := callback.ResultCode
	receipt := callback.CallbackMetadata.ReceiptNumber()

	tx, changed, err := uc.repo.TransitionStatus(ctx, callback.MerchantRequestID, status, &resultCode, reason, receipt)
	if err != nil {
		if errors.Is(err, payments.ErrTransactionNotFound) {
			// The provider reported an outcome for a payment this ledger
			// never recorded: either the process lost state or the call is
			// forged. Acknowledge it so the provider stops retrying, but
			// flag the anomaly.
			logger.Warn("Received callback for unknown transaction",
				logger.String("merchant_request_id", callback.MerchantRequestID),
				logger.Int("result_code", callback.ResultCode))
			return nil
		}
		return fmt.Errorf("failed to process callback: %w", err)
	}

	if !changed {
		logger.Info("Duplicate callback ignored, transaction already terminal",
			logger.String("merchant_request_id", callback.MerchantRequestID),
			logger.String("status", string(tx.Status)))
		return nil
	}

	logger.Info("Transaction transitioned",
		logger.String("merchant_request_id", tx.MerchantRequestID),
		logger.String("order_reference", tx.OrderReference),
		logger.String("status", string(tx.Status)),
		logger.Int("result_code", callback.ResultCode))

	uc.publishOutcome(ctx, tx)

	return nil
}

// publishOutcome emits the payment outcome event. Publishing is best
// effort: the ledger transition already happened and must not be rolled
// back because the event bus is unavailable.
func (uc *PaymentUC) publishOutcome(ctx context.Context, tx *models.Transaction) {
	event := models.PaymentEvent{
		MerchantRequestID: tx.MerchantRequestID,
		CheckoutRequestID: tx.CheckoutRequestID,
		OrderReference:    tx.OrderReference,
		PhoneNumber:       tx.PhoneNumber,
		Amount:            tx.Amount,
		Status:            string(tx.Status),
		Reason:            tx.FailureReason,
		OccurredAt:        time.Now().UTC(),
	}

	var err error
	if tx.Status == models.TransactionStatusSuccess {
		err = uc.gw.PublishPaymentCompleted(ctx, event)
	} else {
		err = uc.gw.PublishPaymentFailed(ctx, event)
	}

	if err != nil {
		logger.ErrorLog("Failed to publish payment outcome event",
			logger.String("merchant_request_id", tx.MerchantRequestID),
			logger.String("status", string(tx.Status)),
			logger.Err(err))
	}
}

// GetPaymentStatus returns the client-facing view of a payment. An unknown
// merchant request ID reports PENDING: the caller cannot distinguish "not
// yet known" from "never existed".
func (uc *PaymentUC) GetPaymentStatus(ctx context.Context, merchantRequestID string) (*models.PaymentStatusResponse, error) {
	tx, err := uc.repo.GetTransaction(ctx, merchantRequestID)
	if err != nil {
		if errors.Is(err, payments.ErrTransactionNotFound) {
			return &models.PaymentStatusResponse{
				MerchantRequestID: merchantRequestID,
				Status:            models.TransactionStatusPending,
			}, nil
		}
		return nil, fmt.Errorf("failed to get payment status: %w", err)
	}

	return &models.PaymentStatusResponse{
		MerchantRequestID: tx.MerchantRequestID,
		Status:            tx.Status,
		OrderReference:    tx.OrderReference,
		FailureReason:     tx.FailureReason,
	}, nil
}

// ResolveExpiredPayments fails PENDING transactions older than the validity
// window. A payment whose callback never arrives would otherwise stay
// PENDING forever; after the window the provider no longer resolves the
// push, so timing out is definitive.
func (uc *PaymentUC) ResolveExpiredPayments(ctx context.Context) (int, error) {
	window := time.Duration(uc.cfg.Payment.ValidityWindowMinutes) * time.Minute
	if window <= 0 {
		window = 5 * time.Minute
	}
	cutoff := time.Now().Add(-window)

	expired, err := uc.repo.ListExpiredPending(ctx, cutoff, 100)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired payments: %w", err)
	}

	resolved := 0
	for _, pending := range expired {
		tx, changed, err := uc.repo.TransitionStatus(ctx, pending.MerchantRequestID,
			models.TransactionStatusFailed, nil, models.FailureReasonTimeout, "")
		if err != nil {
			logger.ErrorLog("Failed to expire pending transaction",
				logger.String("merchant_request_id", pending.MerchantRequestID),
				logger.Err(err))
			continue
		}
		if !changed {
			// A callback won the race between listing and expiring.
			continue
		}

		logger.Info("Pending transaction timed out",
			logger.String("merchant_request_id", tx.MerchantRequestID),
			logger.String("order_reference", tx.OrderReference),
			logger.Duration("age", time.Since(tx.CreatedAt)))

		uc.publishOutcome(ctx, tx)
		resolved++
	}

	return resolved, nil
}
