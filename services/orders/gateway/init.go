package gateway

import (
	"context"

	"github.com/omondi/sokocart/internal/pkg/models"
	natspkg "github.com/omondi/sokocart/internal/pkg/nats"
	"github.com/omondi/sokocart/services/orders"
)

// OrderGW handles outbound calls for the orders service
type OrderGW struct {
	payments   *PaymentClient
	natsClient *natspkg.Client
	notifier   Notifier
}

// NewOrderGW creates a new order gateway
func NewOrderGW(payments *PaymentClient, natsClient *natspkg.Client, notifier Notifier) orders.OrderGW {
	return &OrderGW{
		payments:   payments,
		natsClient: natsClient,
		notifier:   notifier,
	}
}

// InitiateMpesaPayment starts the payment flow via the payments service
func (g *OrderGW) InitiateMpesaPayment(ctx context.Context, req *models.InitiatePaymentRequest) (*models.STKPushResponse, error) {
	return g.payments.Initiate(ctx, req)
}
