package service

import (
	"context"

	"github.com/Thanhbi2612/Dreamlens/internal/config"
	"github.com/Thanhbi2612/Dreamlens/pkg/model_caller"
	"github.com/Thanhbi2612/Dreamlens/pkg/redis_limiter"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// SlotLimiter bounds concurrent generations per key
type SlotLimiter interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string)
}

// NewSlotLimiter returns a Redis-backed limiter when client is non-nil and an
// in-process semaphore otherwise. Both allow cfg.Image.MaxConcurrency slots.
func NewSlotLimiter(cfg *config.Config, client *redis.Client, logger logrus.FieldLogger) SlotLimiter {
	if client != nil {
		return redis_limiter.NewRedisLimiter(client, cfg.Image.MaxConcurrency, cfg.Redis.KeyPrefix, cfg.Redis.GetSlotTTL(), logger)
	}
	return model_caller.NewConcurrencyLimiter(cfg.Image.MaxConcurrency)
}
