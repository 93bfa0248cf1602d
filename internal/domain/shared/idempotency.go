package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed keys (webhook event ids) so a
// redelivered message is applied once.
type IdempotencyStore interface {
	// MarkProcessed returns true if the key was newly marked, false if it
	// was already present and unexpired.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Forget removes a key so a failed delivery can be retried
	Forget(ctx context.Context, key string) error

	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL after which the same key can be processed again. Default: 72 hours,
	// matching Stripe's redelivery window.
	TTL time.Duration
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL: 72 * time.Hour,
	}
}
