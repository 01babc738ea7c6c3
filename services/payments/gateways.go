package payments

import (
	"context"

	"github.com/omondi/sokocart/internal/pkg/models"
)

// PaymentGW defines the interface for payment gateway operations: the
// outbound provider client and payment outcome event publishing
type PaymentGW interface {
	// InitiateSTKPush submits a payment request to the provider. The gateway
	// owns credential acquisition and the provider's canonical request
	// encoding (timestamp and password); an unobtainable token surfaces as
	// ErrAuthFailure, a provider rejection as *ProviderError.
	InitiateSTKPush(ctx context.Context, amount int, phoneNumber, accountReference string) (*models.STKPushResponse, error)

	PublishPaymentCompleted(ctx context.Context, event models.PaymentEvent) error
	PublishPaymentFailed(ctx context.Context, event models.PaymentEvent) error
}
