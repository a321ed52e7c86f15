package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jordanlanch/careconnect/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Client holds the Redis client
type Client struct {
	Redis *redis.Client
}

// NewClient creates a new Redis client and verifies the connection
func NewClient(redisURL string, log logger.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	c := Wrap(redis.NewClient(opts))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}

	log.Info("redis connected", "addr", opts.Addr)
	return c, nil
}

// Wrap adopts an existing go-redis client
func Wrap(rdb *redis.Client) *Client {
	return &Client{Redis: rdb}
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.Redis.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.Redis.Close()
}

// Publish sends message on channel and returns the number of receivers
func (c *Client) Publish(ctx context.Context, channel, message string) (int64, error) {
	return c.Redis.Publish(ctx, channel, message).Result()
}

// Subscribe subscribes to channel and waits for the server to confirm,
// so nothing published after it returns is missed. Callers must close
// the returned subscription.
func (c *Client) Subscribe(ctx context.Context, channel string) (*redis.PubSub, error) {
	sub := c.Redis.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed subscribing to %s: %w", channel, err)
	}
	return sub, nil
}
