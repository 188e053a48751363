package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/campus-console/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Client is the connection behind the redis state store
type Client struct {
	rdb *redis.Client
}

// NewClient connects to the state redis and verifies it is reachable
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to reach state redis at %s: %w", cfg.Addr(), err)
	}

	log.Debug().Str("addr", cfg.Addr()).Int("db", cfg.DB).Msg("redis state store connected")
	return &Client{rdb: rdb}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
