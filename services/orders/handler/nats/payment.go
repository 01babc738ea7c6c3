package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/omondi/sokocart/internal/pkg/constants"
	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/internal/pkg/models"
)

// initPaymentConsumers subscribes to payment outcome subjects. Queue group
// subscriptions keep each event on exactly one orders instance.
func (h *Handler) initPaymentConsumers() error {
	completedSub, err := h.natsClient.QueueSubscribe(constants.SubjectPaymentCompleted, constants.QueueGroupOrders, func(msg *nats.Msg) {
		if err := h.handlePaymentOutcome(msg.Data); err != nil {
			logger.ErrorLog("Error handling payment completed event", logger.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to payment completed events: %w", err)
	}
	h.subs = append(h.subs, completedSub)

	failedSub, err := h.natsClient.QueueSubscribe(constants.SubjectPaymentFailed, constants.QueueGroupOrders, func(msg *nats.Msg) {
		if err := h.handlePaymentOutcome(msg.Data); err != nil {
			logger.ErrorLog("Error handling payment failed event", logger.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to payment failed events: %w", err)
	}
	h.subs = append(h.subs, failedSub)

	return nil
}

// handlePaymentOutcome records a payment outcome event against its order
func (h *Handler) handlePaymentOutcome(msg []byte) error {
	var event models.PaymentEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal payment event: %w", err)
	}

	if event.OrderReference == "" {
		return fmt.Errorf("payment event missing order reference")
	}

	return h.orderUC.RecordPaymentOutcome(context.Background(), &event)
}
