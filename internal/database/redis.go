package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/ruralpay/payments-engine/internal/config"
)

// InitRedis initializes Redis client with config
func InitRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return rdb, nil
}
