package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/omondi/sokocart/internal/pkg/models"
)

// OrderRepo defines order data access operations
type OrderRepo interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderByReference(ctx context.Context, reference string) (*models.Order, error)
	UpdatePaymentOutcome(ctx context.Context, reference, paymentStatus, paymentReason string) error
}
