package constants

import "fmt"

// Redis key prefixes
const (
	KeyPrefixTransaction = "payment:tx:"
)

// TransactionKey builds the cache key for a transaction status entry
func TransactionKey(merchantRequestID string) string {
	return fmt.Sprintf("%s%s", KeyPrefixTransaction, merchantRequestID)
}
