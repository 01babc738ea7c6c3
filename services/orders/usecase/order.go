package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/internal/pkg/models"
	"github.com/omondi/sokocart/internal/utils"
	"github.com/omondi/sokocart/services/orders"
)

// OrderUC implements the orders.OrderUC interface
type OrderUC struct {
	cfg  *models.Config
	repo orders.OrderRepo
	gw   orders.OrderGW
}

// NewOrderUC creates a new order use case
func NewOrderUC(cfg *models.Config, repo orders.OrderRepo, gw orders.OrderGW) *OrderUC {
	return &OrderUC{
		cfg:  cfg,
		repo: repo,
		gw:   gw,
	}
}

// newOrderReference derives a short human-readable order reference. The
// provider echoes it back on payment callbacks as the account reference.
func newOrderReference(id uuid.UUID) string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:12])
}

// CreateOrder persists a new pending order. Mobile money orders also start
// the payment flow against the payments service before returning, so the
// client receives the correlation IDs it polls the payment status with.
func (uc *OrderUC) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	if req.TotalAmount <= 0 {
		return nil, fmt.Errorf("total amount must be positive")
	}
	if req.CustomerEmail == "" {
		return nil, fmt.Errorf("customer email is required")
	}
	if req.PaymentMethod != models.PaymentMethodMpesa && req.PaymentMethod != models.PaymentMethodCard {
		return nil, fmt.Errorf("unsupported payment method: %s", req.PaymentMethod)
	}

	phoneNumber := req.CustomerPhone
	if req.PaymentMethod == models.PaymentMethodMpesa {
		valid, normalized, err := utils.ValidateMSISDN(req.CustomerPhone)
		if !valid {
			return nil, fmt.Errorf("invalid phone number: %w", err)
		}
		phoneNumber = normalized
	}

	order := &models.Order{
		ID:            uuid.New(),
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: phoneNumber,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderStatusPending,
	}
	order.Reference = newOrderReference(order.ID)

	resp := &models.CreateOrderResponse{Order: order}

	if req.PaymentMethod == models.PaymentMethodMpesa {
		pushResp, err := uc.gw.InitiateMpesaPayment(ctx, &models.InitiatePaymentRequest{
			PhoneNumber:    phoneNumber,
			Amount:         req.TotalAmount,
			OrderReference: order.Reference,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initiate payment: %w", err)
		}
		order.MerchantRequestID = pushResp.MerchantRequestID
		resp.MerchantRequestID = pushResp.MerchantRequestID
		resp.CheckoutRequestID = pushResp.CheckoutRequestID
		resp.CustomerMessage = pushResp.CustomerMessage
	}

	if err := uc.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	logger.Info("Order created",
		logger.String("order_id", order.ID.String()),
		logger.String("reference", order.Reference),
		logger.String("payment_method", order.PaymentMethod),
		logger.Int("total_amount", order.TotalAmount))

	if err := uc.gw.PublishOrderCreated(ctx, order); err != nil {
		logger.ErrorLog("Failed to publish order created event",
			logger.String("order_id", order.ID.String()),
			logger.Err(err))
	}

	return resp, nil
}

// GetOrder retrieves an order by ID
func (uc *OrderUC) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return uc.repo.GetOrder(ctx, id)
}

// RecordPaymentOutcome applies a payment outcome event to the matching
// order. The outcome lands on the order's payment fields only; fulfilment
// status stays under operator control.
func (uc *OrderUC) RecordPaymentOutcome(ctx context.Context, event *models.PaymentEvent) error {
	order, err := uc.repo.GetOrderByReference(ctx, event.OrderReference)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			logger.Warn("Payment outcome for unknown order reference",
				logger.String("order_reference", event.OrderReference),
				logger.String("merchant_request_id", event.MerchantRequestID))
			return nil
		}
		return fmt.Errorf("failed to load order for payment outcome: %w", err)
	}

	if err := uc.repo.UpdatePaymentOutcome(ctx, event.OrderReference, event.Status, event.Reason); err != nil {
		return fmt.Errorf("failed to record payment outcome: %w", err)
	}

	order.PaymentStatus = event.Status
	order.PaymentReason = event.Reason

	logger.Info("Payment outcome recorded",
		logger.String("order_reference", event.OrderReference),
		logger.String("payment_status", event.Status))

	if err := uc.gw.NotifyPaymentOutcome(ctx, order, event); err != nil {
		logger.ErrorLog("Failed to notify customer of payment outcome",
			logger.String("order_reference", event.OrderReference),
			logger.Err(err))
	}

	return nil
}
