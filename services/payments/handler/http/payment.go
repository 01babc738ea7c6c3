package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omondi/sokocart/internal/pkg/circuitbreaker"
	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/internal/pkg/models"
	"github.com/omondi/sokocart/internal/utils"
	"github.com/omondi/sokocart/services/payments"
)

// PaymentHandler handles HTTP requests for payment operations
type PaymentHandler struct {
	paymentUC payments.PaymentUC
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentUC payments.PaymentUC) *PaymentHandler {
	return &PaymentHandler{
		paymentUC: paymentUC,
	}
}

// RegisterRoutes registers payment endpoints on the Echo instance
func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/payments")
	g.POST("/initiate", h.InitiatePayment)
	g.POST("/callback", h.MpesaCallback)
	g.GET("/status/:merchantRequestID", h.GetPaymentStatus)
}

// InitiatePayment handles payment initiation requests
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	var req models.InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request payload for payment initiation",
			logger.Err(err),
			logger.String("endpoint", "InitiatePayment"),
		)
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	resp, err := h.paymentUC.InitiatePayment(c.Request().Context(), &req)
	if err != nil {
		return h.initiateErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusAccepted, "Payment initiated successfully", resp)
}

// initiateErrorResponse maps initiation failures to client responses. A
// provider rejection is relayed with the provider's own status and body so
// the client sees the same verdict the provider gave.
func (h *PaymentHandler) initiateErrorResponse(c echo.Context, err error) error {
	var providerErr *payments.ProviderError
	switch {
	case errors.As(err, &providerErr):
		logger.Warn("Provider rejected payment initiation",
			logger.Int("status_code", providerErr.StatusCode),
			logger.String("error_code", providerErr.Response.ErrorCode),
		)
		return c.JSON(providerErr.StatusCode, providerErr.Response)
	case errors.Is(err, payments.ErrAuthFailure):
		logger.ErrorLog("Provider authentication failed", logger.Err(err))
		return utils.BadGatewayResponse(c, "Payment provider authentication failed")
	case errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen),
		errors.Is(err, circuitbreaker.ErrTooManyRequests):
		logger.Warn("Payment provider circuit open", logger.Err(err))
		return utils.ServiceUnavailableResponse(c, "Payment provider temporarily unavailable")
	default:
		logger.ErrorLog("Failed to initiate payment", logger.Err(err))
		return utils.BadRequestResponse(c, err.Error())
	}
}

// MpesaCallback receives the asynchronous payment result from the provider.
// Any structurally valid callback is acknowledged with 200 regardless of
// the payment outcome; the provider only needs to know delivery succeeded.
func (h *PaymentHandler) MpesaCallback(c echo.Context) error {
	var envelope models.STKCallbackEnvelope
	if err := c.Bind(&envelope); err != nil {
		logger.Warn("Malformed provider callback payload", logger.Err(err))
		return utils.BadRequestResponse(c, "Invalid callback payload")
	}

	callback := envelope.Body.STKCallback
	if callback == nil || callback.MerchantRequestID == "" {
		logger.Warn("Provider callback missing stkCallback body")
		return utils.BadRequestResponse(c, "Invalid callback payload")
	}

	if err := h.paymentUC.HandleCallback(c.Request().Context(), callback); err != nil {
		// Returning 5xx makes the provider redeliver, which is the only
		// recovery path when the ledger write failed.
		logger.ErrorLog("Failed to process provider callback",
			logger.String("merchant_request_id", callback.MerchantRequestID),
			logger.Err(err),
		)
		return utils.InternalServerErrorResponse(c, "Failed to process callback")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Callback processed", nil)
}

// GetPaymentStatus handles payment status queries
func (h *PaymentHandler) GetPaymentStatus(c echo.Context) error {
	merchantRequestID := c.Param("merchantRequestID")
	if merchantRequestID == "" {
		return utils.BadRequestResponse(c, "Invalid merchant request ID")
	}

	status, err := h.paymentUC.GetPaymentStatus(c.Request().Context(), merchantRequestID)
	if err != nil {
		logger.ErrorLog("Failed to retrieve payment status",
			logger.String("merchant_request_id", merchantRequestID),
			logger.Err(err),
		)
		return utils.InternalServerErrorResponse(c, "Failed to retrieve payment status")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Payment status retrieved", status)
}
