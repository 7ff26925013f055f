package redis

import (
	"context"
	"fmt"
	"time"

	"fx-payment-processor/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const connectTimeout = 5 * time.Second

// NewClient creates a Redis client and verifies connectivity. Redis
// only backs rate limiting here, so a failure at startup is a
// configuration problem, not something to retry around.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Msg("Redis connection established")

	return client, nil
}
