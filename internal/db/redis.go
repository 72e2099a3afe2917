package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/example/blog-api/internal/config"
)

// ConnectRedis opens a client for the redis-backed store and checks it with PING.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return c, nil
}
