package gateway

import (
	"context"
	"encoding/json"

	"github.com/omondi/sokocart/internal/pkg/constants"
	"github.com/omondi/sokocart/internal/pkg/models"
)

// PublishPaymentCompleted publishes a payment completed event to NATS
func (g *PaymentGW) PublishPaymentCompleted(ctx context.Context, event models.PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return g.natsClient.Publish(constants.SubjectPaymentCompleted, data)
}

// PublishPaymentFailed publishes a payment failed event to NATS
func (g *PaymentGW) PublishPaymentFailed(ctx context.Context, event models.PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return g.natsClient.Publish(constants.SubjectPaymentFailed, data)
}
