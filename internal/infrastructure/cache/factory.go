package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Backends accepted by NewIdempotencyStore
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// NewIdempotencyStore builds the store named by cfg.Backend. The redis
// backend is pinged up front so a bad address fails startup rather than the
// first webhook.
func NewIdempotencyStore(ctx context.Context, cfg config.IdempotencyConfig, redisCfg config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend {
	case "", BackendMemory:
		logger.Warn("Using in-memory idempotency store; webhook deduplication is per instance")
		return NewMemoryIdempotencyStore(0), nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr(),
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", redisCfg.Addr(), err)
		}
		logger.Info("Using redis idempotency store", zap.String("addr", redisCfg.Addr()))
		return NewRedisIdempotencyStore(client, ""), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cfg.Backend)
	}
}
