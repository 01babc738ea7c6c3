package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Payment methods accepted at checkout
const (
	PaymentMethodMpesa = "mpesa"
	PaymentMethodCard  = "card"
)

// Order represents a customer order. Order status and payment outcome are
// deliberately decoupled: the payment fields record what happened to the
// payment without driving the fulfilment state machine.
type Order struct {
	ID                uuid.UUID   `json:"id" db:"id"`
	CustomerEmail     string      `json:"customer_email" db:"customer_email"`
	CustomerPhone     string      `json:"customer_phone" db:"customer_phone"`
	Reference         string      `json:"reference" db:"reference"`
	TotalAmount       int         `json:"total_amount" db:"total_amount"`
	PaymentMethod     string      `json:"payment_method" db:"payment_method"`
	MerchantRequestID string      `json:"merchant_request_id,omitempty" db:"merchant_request_id"`
	PaymentStatus     string      `json:"payment_status,omitempty" db:"payment_status"`
	PaymentReason     string      `json:"payment_reason,omitempty" db:"payment_reason"`
	Status            OrderStatus `json:"status" db:"status"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateOrderRequest is the client-facing request to place an order
type CreateOrderRequest struct {
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	TotalAmount   int    `json:"total_amount"`
	PaymentMethod string `json:"payment_method"`
}

// CreateOrderResponse is returned once the order is persisted. For mobile
// money orders it carries the provider correlation IDs the client polls with.
type CreateOrderResponse struct {
	Order             *Order `json:"order"`
	MerchantRequestID string `json:"merchant_request_id,omitempty"`
	CheckoutRequestID string `json:"checkout_request_id,omitempty"`
	CustomerMessage   string `json:"customer_message,omitempty"`
}
