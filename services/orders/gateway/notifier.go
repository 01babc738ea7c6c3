package gateway

import (
	"context"
	"fmt"

	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/internal/pkg/models"
)

// Notifier delivers customer-facing notifications about payment outcomes
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// LogNotifier writes notifications to the application log instead of an
// outbound channel. It stands in until an email or SMS provider is wired.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Send records the notification in the log
func (n *LogNotifier) Send(_ context.Context, recipient, subject, body string) error {
	logger.Info("Customer notification",
		logger.String("recipient", recipient),
		logger.String("subject", subject),
		logger.String("body", body))
	return nil
}

// NotifyPaymentOutcome composes and sends the payment outcome notification
func (g *OrderGW) NotifyPaymentOutcome(ctx context.Context, order *models.Order, event *models.PaymentEvent) error {
	var subject, body string
	if event.Status == string(models.TransactionStatusSuccess) {
		subject = fmt.Sprintf("Payment received for order %s", order.Reference)
		body = fmt.Sprintf("We received your payment of KES %d for order %s. Thank you for shopping with us.",
			event.Amount, order.Reference)
	} else {
		subject = fmt.Sprintf("Payment failed for order %s", order.Reference)
		body = fmt.Sprintf("Your payment for order %s did not complete (%s). You can retry from your order page.",
			order.Reference, event.Reason)
	}

	return g.notifier.Send(ctx, order.CustomerEmail, subject, body)
}
