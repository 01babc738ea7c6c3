package nats

import (
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omondi/sokocart/internal/pkg/models"
	"github.com/omondi/sokocart/services/orders/mocks"
)

func TestHandlePaymentOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockOrderUC(ctrl)
	h := &Handler{orderUC: mockUC}

	event := models.PaymentEvent{
		MerchantRequestID: "29115-1",
		OrderReference:    "ORD-1001",
		Amount:            2500,
		Status:            string(models.TransactionStatusSuccess),
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	mockUC.EXPECT().
		RecordPaymentOutcome(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, got *models.PaymentEvent) error {
			assert.Equal(t, "ORD-1001", got.OrderReference)
			assert.Equal(t, string(models.TransactionStatusSuccess), got.Status)
			return nil
		})

	assert.NoError(t, h.handlePaymentOutcome(payload))
}

func TestHandlePaymentOutcome_MalformedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := &Handler{orderUC: mocks.NewMockOrderUC(ctrl)}

	assert.Error(t, h.handlePaymentOutcome([]byte(`{not json`)))
}

func TestHandlePaymentOutcome_MissingReference(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := &Handler{orderUC: mocks.NewMockOrderUC(ctrl)}

	payload, err := json.Marshal(models.PaymentEvent{
		MerchantRequestID: "29115-1",
		Status:            string(models.TransactionStatusFailed),
	})
	require.NoError(t, err)

	assert.Error(t, h.handlePaymentOutcome(payload))
}
