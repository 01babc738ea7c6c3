package payments

import (
	"context"

	"github.com/omondi/sokocart/internal/pkg/models"
)

// PaymentUC defines the interface for payment business logic
type PaymentUC interface {
	InitiatePayment(ctx context.Context, req *models.InitiatePaymentRequest) (*models.STKPushResponse, error)
	HandleCallback(ctx context.Context, callback *models.STKCallback) error
	GetPaymentStatus(ctx context.Context, merchantRequestID string) (*models.PaymentStatusResponse, error)
	ResolveExpiredPayments(ctx context.Context) (int, error)
}
