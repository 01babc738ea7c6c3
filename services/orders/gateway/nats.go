package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/omondi/sokocart/internal/pkg/constants"
	"github.com/omondi/sokocart/internal/pkg/models"
)

// PublishOrderCreated announces a newly placed order
func (g *OrderGW) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order created event: %w", err)
	}

	return g.natsClient.Publish(constants.SubjectOrderCreated, payload)
}
