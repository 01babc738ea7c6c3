package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/omondi/sokocart/internal/pkg/constants"
	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/internal/pkg/models"
)

// cacheTransaction stores the transaction in Redis. The entry carries a TTL
// so terminal records age out of the cache; the database remains the source
// of truth and cache failures are never fatal to the request.
func (r *PaymentRepo) cacheTransaction(ctx context.Context, tx *models.Transaction) {
	if r.redisClient == nil {
		return
	}

	data, err := json.Marshal(tx)
	if err != nil {
		logger.Warn("Failed to marshal transaction for cache",
			logger.String("merchant_request_id", tx.MerchantRequestID),
			logger.Err(err))
		return
	}

	ttl := time.Duration(r.cfg.Payment.StatusCacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	key := constants.TransactionKey(tx.MerchantRequestID)
	if err := r.redisClient.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("Failed to cache transaction",
			logger.String("merchant_request_id", tx.MerchantRequestID),
			logger.Err(err))
	}
}

// cachedTransaction returns the cached transaction or nil on a miss
func (r *PaymentRepo) cachedTransaction(ctx context.Context, merchantRequestID string) *models.Transaction {
	if r.redisClient == nil {
		return nil
	}

	data, err := r.redisClient.Get(ctx, constants.TransactionKey(merchantRequestID))
	if err != nil {
		return nil
	}

	var tx models.Transaction
	if err := json.Unmarshal([]byte(data), &tx); err != nil {
		logger.Warn("Discarding unreadable cached transaction",
			logger.String("merchant_request_id", merchantRequestID),
			logger.Err(err))
		return nil
	}

	return &tx
}
