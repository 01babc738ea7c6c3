package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/internal/pkg/models"
	"github.com/omondi/sokocart/internal/utils"
	"github.com/omondi/sokocart/services/orders"
)

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderUC orders.OrderUC
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderUC orders.OrderUC) *OrderHandler {
	return &OrderHandler{
		orderUC: orderUC,
	}
}

// RegisterRoutes registers order endpoints on the Echo instance
func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/orders")
	g.POST("", h.CreateOrder)
	g.GET("/:id", h.GetOrder)
}

// CreateOrder handles order placement requests
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request payload for order creation",
			logger.Err(err),
			logger.String("endpoint", "CreateOrder"),
		)
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	resp, err := h.orderUC.CreateOrder(c.Request().Context(), &req)
	if err != nil {
		logger.ErrorLog("Failed to create order", logger.Err(err))
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Order created successfully", resp)
}

// GetOrder handles order retrieval requests
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid order ID")
	}

	order, err := h.orderUC.GetOrder(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			return utils.NotFoundResponse(c, "Order not found")
		}
		logger.ErrorLog("Failed to retrieve order",
			logger.String("order_id", id.String()),
			logger.Err(err),
		)
		return utils.InternalServerErrorResponse(c, "Failed to retrieve order")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}
