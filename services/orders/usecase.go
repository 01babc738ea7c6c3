package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/omondi/sokocart/internal/pkg/models"
)

// OrderUC defines the order use case operations
type OrderUC interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	RecordPaymentOutcome(ctx context.Context, event *models.PaymentEvent) error
}
