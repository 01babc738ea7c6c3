package nats

import (
	"fmt"

	"github.com/nats-io/nats.go"

	natspkg "github.com/omondi/sokocart/internal/pkg/nats"
	"github.com/omondi/sokocart/services/orders"
)

// Handler consumes payment outcome events for the orders service
type Handler struct {
	orderUC    orders.OrderUC
	natsClient *natspkg.Client
	subs       []*nats.Subscription
}

// NewHandler creates a new NATS handler and starts its consumers
func NewHandler(orderUC orders.OrderUC, natsClient *natspkg.Client) (*Handler, error) {
	h := &Handler{
		orderUC:    orderUC,
		natsClient: natsClient,
	}

	if err := h.initPaymentConsumers(); err != nil {
		return nil, fmt.Errorf("failed to initialize NATS consumers: %w", err)
	}

	return h, nil
}

// Close unsubscribes from all NATS subscriptions
func (h *Handler) Close() {
	for _, sub := range h.subs {
		sub.Unsubscribe()
	}
}
