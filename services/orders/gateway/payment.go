package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	httppkg "github.com/omondi/sokocart/internal/pkg/http"
	"github.com/omondi/sokocart/internal/pkg/models"
	nrpkg "github.com/omondi/sokocart/internal/pkg/newrelic"
)

const initiatePaymentPath = "/payments/initiate"

// PaymentClient calls the payments service over HTTP
type PaymentClient struct {
	client *httppkg.Client
}

// NewPaymentClient creates a client for the payments service
func NewPaymentClient(serviceURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		client: httppkg.NewClient(serviceURL, timeout),
	}
}

// initiateEnvelope matches the payments service response wrapper
type initiateEnvelope struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    *models.STKPushResponse `json:"data"`
	Error   string                  `json:"error"`
}

// Initiate asks the payments service to start an STK push for the order
func (p *PaymentClient) Initiate(ctx context.Context, req *models.InitiatePaymentRequest) (*models.STKPushResponse, error) {
	var envelope initiateEnvelope

	err := nrpkg.WithExternalSegment(ctx, "payments-service", "POST", p.client.BaseURL+initiatePaymentPath, func() error {
		resp, err := p.client.PostJSON(ctx, initiatePaymentPath, req, nil)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusAccepted {
			var failure initiateEnvelope
			if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr == nil && failure.Error != "" {
				return &httppkg.HTTPError{StatusCode: resp.StatusCode, Message: failure.Error}
			}
			return &httppkg.HTTPError{StatusCode: resp.StatusCode, Message: "payment initiation rejected"}
		}

		return json.NewDecoder(resp.Body).Decode(&envelope)
	})
	if err != nil {
		return nil, err
	}

	if envelope.Data == nil {
		return nil, fmt.Errorf("payments service response missing data")
	}

	return envelope.Data, nil
}
