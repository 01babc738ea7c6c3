package usecase

import (
	"context"
	"time"

	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/services/payments"
)

// Sweeper periodically resolves expired pending payments in the background.
type Sweeper struct {
	uc       payments.PaymentUC
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSweeper creates a sweeper that runs every interval
func NewSweeper(uc payments.PaymentUC, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Sweeper{
		uc:       uc,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine
func (s *Sweeper) Start() {
	go s.run()
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Info("Payment timeout sweeper started",
		logger.Duration("interval", s.interval))

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			logger.Info("Payment timeout sweeper stopped")
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resolved, err := s.uc.ResolveExpiredPayments(ctx)
	if err != nil {
		logger.ErrorLog("Payment timeout sweep failed", logger.Err(err))
		return
	}
	if resolved > 0 {
		logger.Info("Payment timeout sweep resolved transactions",
			logger.Int("count", resolved))
	}
}

// Shutdown stops the sweep loop and waits for an in-flight sweep to finish
func (s *Sweeper) Shutdown(ctx context.Context) error {
	close(s.stopCh)
	select {
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
