package cache

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/config"
)

// NewRedisClient creates a Redis client for the latest-reading cache and
// live delivery channels
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// Ping tests the Redis connection
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
