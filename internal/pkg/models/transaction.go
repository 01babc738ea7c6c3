package models

import (
	"time"
)

// TransactionStatus represents the lifecycle state of a payment transaction
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// IsTerminal reports whether no further transition is permitted from the status
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}

// Failure reasons recorded alongside a FAILED status. A timeout is a
// first-class failure cause, distinguishable from a provider-reported one.
const (
	FailureReasonTimeout = "timeout"
)

// Transaction represents one mobile-money payment attempt, keyed by the
// provider-assigned merchant request ID
type Transaction struct {
	MerchantRequestID string            `json:"merchant_request_id" db:"merchant_request_id"`
	CheckoutRequestID string            `json:"checkout_request_id" db:"checkout_request_id"`
	OrderReference    string            `json:"order_reference" db:"order_reference"`
	PhoneNumber       string            `json:"phone_number" db:"phone_number"`
	Amount            int               `json:"amount" db:"amount"`
	Status            TransactionStatus `json:"status" db:"status"`
	ResultCode        *int              `json:"result_code,omitempty" db:"result_code"`
	FailureReason     string            `json:"failure_reason,omitempty" db:"failure_reason"`
	MpesaReceipt      string            `json:"mpesa_receipt,omitempty" db:"mpesa_receipt"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}

// PaymentStatusResponse is the client-facing view returned by the status
// query endpoint. An unknown merchant request ID reports PENDING with an
// empty order reference; the client cannot distinguish "not yet known"
// from "never existed".
type PaymentStatusResponse struct {
	MerchantRequestID string            `json:"merchant_request_id"`
	Status            TransactionStatus `json:"status"`
	OrderReference    string            `json:"order_reference,omitempty"`
	FailureReason     string            `json:"failure_reason,omitempty"`
}

// PaymentEvent is published to NATS when a transaction reaches a terminal state
type PaymentEvent struct {
	MerchantRequestID string    `json:"merchant_request_id"`
	CheckoutRequestID string    `json:"checkout_request_id"`
	OrderReference    string    `json:"order_reference"`
	PhoneNumber       string    `json:"phone_number"`
	Amount            int       `json:"amount"`
	Status            string    `json:"status"`
	Reason            string    `json:"reason,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}
