package gateway

import (
	"context"

	"github.com/omondi/sokocart/internal/pkg/models"
	natspkg "github.com/omondi/sokocart/internal/pkg/nats"
	"github.com/omondi/sokocart/services/payments"
)

// PaymentGW handles outbound provider calls and payment event publishing
type PaymentGW struct {
	mpesa      *MpesaClient
	natsClient *natspkg.Client
}

// NewPaymentGW creates a new payment gateway
func NewPaymentGW(mpesa *MpesaClient, natsClient *natspkg.Client) payments.PaymentGW {
	return &PaymentGW{
		mpesa:      mpesa,
		natsClient: natsClient,
	}
}

// InitiateSTKPush submits a payment request to the provider
func (g *PaymentGW) InitiateSTKPush(ctx context.Context, amount int, phoneNumber, accountReference string) (*models.STKPushResponse, error) {
	return g.mpesa.STKPush(ctx, amount, phoneNumber, accountReference)
}
