package payments

import (
	"errors"
	"fmt"

	"github.com/omondi/sokocart/internal/pkg/models"
)

var (
	// ErrTransactionNotFound is returned when no ledger record exists for
	// a merchant request ID
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAuthFailure is returned when a provider access token could not be
	// acquired; the initiate path must abort rather than proceed untokened
	ErrAuthFailure = errors.New("failed to acquire provider access token")
)

// ProviderError carries the provider's rejection payload verbatim so that
// callers see exactly what the provider reported
type ProviderError struct {
	StatusCode int
	Response   models.MpesaErrorResponse
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider rejected request (status %d): %s %s",
		e.StatusCode, e.Response.ErrorCode, e.Response.ErrorMessage)
}
