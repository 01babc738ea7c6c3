package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/omondi/sokocart/internal/pkg/models"
	"github.com/omondi/sokocart/services/orders"
	"github.com/omondi/sokocart/services/orders/mocks"
)

func TestCreateOrder_Created(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockOrderUC(ctrl)
	handler := NewOrderHandler(mockUC)

	e := echo.New()
	requestBody := `{
		"customer_email": "jane@example.com",
		"customer_phone": "0712345678",
		"total_amount": 2500,
		"payment_method": "mpesa"
	}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(requestBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mockUC.EXPECT().
		CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, r *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
			assert.Equal(t, "jane@example.com", r.CustomerEmail)
			assert.Equal(t, 2500, r.TotalAmount)
			assert.Equal(t, models.PaymentMethodMpesa, r.PaymentMethod)
			return &models.CreateOrderResponse{
				Order:             &models.Order{ID: uuid.New(), Reference: "ORD-1001"},
				MerchantRequestID: "29115-1",
				CheckoutRequestID: "ws_CO_1",
			}, nil
		})

	err := handler.CreateOrder(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORD-1001")
	assert.Contains(t, rec.Body.String(), "29115-1")
}

func TestCreateOrder_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockOrderUC(ctrl)
	handler := NewOrderHandler(mockUC)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{invalid`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CreateOrder(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_UsecaseFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockOrderUC(ctrl)
	handler := NewOrderHandler(mockUC)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"customer_email":"a@b.com","customer_phone":"0712345678","total_amount":100,"payment_method":"mpesa"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mockUC.EXPECT().
		CreateOrder(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("failed to initiate payment"))

	err := handler.CreateOrder(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockOrderUC(ctrl)
	handler := NewOrderHandler(mockUC)

	orderID := uuid.New()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())

	mockUC.EXPECT().
		GetOrder(gomock.Any(), orderID).
		Return(&models.Order{ID: orderID, Reference: "ORD-1001", Status: models.OrderStatusPending}, nil)

	err := handler.GetOrder(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORD-1001")
}

func TestGetOrder_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockOrderUC(ctrl)
	handler := NewOrderHandler(mockUC)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := handler.GetOrder(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockOrderUC(ctrl)
	handler := NewOrderHandler(mockUC)

	orderID := uuid.New()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())

	mockUC.EXPECT().
		GetOrder(gomock.Any(), orderID).
		Return(nil, orders.ErrOrderNotFound)

	err := handler.GetOrder(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
