package database

import (
	"context"
	"fmt"
	"time"

	"tachyon_backend/internal/config"
	applog "tachyon_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis connects to redis. Redis backs OTP rate limits and the attempt
// idempotency cache; both degrade gracefully, so a failed connection logs a
// warning and returns nil instead of aborting startup.
func InitRedis(cfg *config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		applog.Log.Warn("redis unavailable, rate limits and idempotency cache degraded", zap.Error(err))
		return nil
	}

	applog.Log.Info("redis connection established", zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)))
	return client
}
