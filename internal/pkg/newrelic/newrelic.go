package newrelic

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/internal/pkg/models"
)

// InitNewRelic initializes the New Relic application based on configuration
func InitNewRelic(configs *models.Config) *newrelic.Application {
	if !configs.NewRelic.Enabled || configs.NewRelic.LicenseKey == "" {
		logger.Info("New Relic is disabled or license key not provided")
		return nil
	}

	logger.Info("New Relic enabled",
		logger.String("app_name", configs.NewRelic.AppName))

	nrApp, err := newrelic.NewApplication(
		newrelic.ConfigAppName(configs.NewRelic.AppName),
		newrelic.ConfigLicense(configs.NewRelic.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(configs.NewRelic.ForwardLogs),
		newrelic.ConfigAppLogDecoratingEnabled(true),
	)
	if err != nil {
		logger.Warn("Failed to initialize New Relic, continuing without New Relic",
			logger.Err(err))
		return nil
	}

	return nrApp
}

// FromContext returns the New Relic transaction stored in ctx, if any
func FromContext(ctx context.Context) *newrelic.Transaction {
	return newrelic.FromContext(ctx)
}

// WithExternalSegment executes an external service call within a New Relic
// external segment. Used by gateways that call the payment provider or
// other services.
func WithExternalSegment(ctx context.Context, serviceName, operation, url string, fn func() error) error {
	txn := FromContext(ctx)
	if txn == nil {
		return fn()
	}

	segment := &newrelic.ExternalSegment{
		StartTime: txn.StartSegmentNow(),
		URL:       url,
		Procedure: operation,
		Library:   serviceName,
	}
	defer segment.End()

	err := fn()
	if err != nil {
		txn.NoticeError(err)
	}

	return err
}
