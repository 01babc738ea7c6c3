package orders

import (
	"context"

	"github.com/omondi/sokocart/internal/pkg/models"
)

// OrderGW defines outbound operations for the orders service
type OrderGW interface {
	InitiateMpesaPayment(ctx context.Context, req *models.InitiatePaymentRequest) (*models.STKPushResponse, error)
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	NotifyPaymentOutcome(ctx context.Context, order *models.Order, event *models.PaymentEvent) error
}
