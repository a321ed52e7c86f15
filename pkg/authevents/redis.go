package authevents

import (
	"context"
	"fmt"
	"sync"

	"github.com/jordanlanch/careconnect/pkg/cache"
	"github.com/jordanlanch/careconnect/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisBus fans sign-in signals out to every API instance through Redis pub/sub
type RedisBus struct {
	client *cache.Client
	logger logger.Logger
}

// NewRedisBus creates a bus over client
func NewRedisBus(client *cache.Client, log logger.Logger) *RedisBus {
	return &RedisBus{client: client, logger: log}
}

// Publish announces that email signed in
func (b *RedisBus) Publish(ctx context.Context, email string) error {
	n, err := b.client.Publish(ctx, Channel(email), "1")
	if err != nil {
		return fmt.Errorf("publish sign-in: %w", err)
	}
	b.logger.Debug("sign-in published", "receivers", n)
	return nil
}

// Register subscribes to the address channel and returns once Redis has
// confirmed the subscription
func (b *RedisBus) Register(ctx context.Context, email string) (Listener, error) {
	sub, err := b.client.Subscribe(ctx, Channel(email))
	if err != nil {
		return nil, err
	}
	return &redisListener{sub: sub, messages: sub.Channel()}, nil
}

type redisListener struct {
	sub      *redis.PubSub
	messages <-chan *redis.Message
	once     sync.Once
}

func (l *redisListener) Wait(ctx context.Context) error {
	select {
	case _, ok := <-l.messages:
		if !ok {
			return fmt.Errorf("sign-in subscription closed")
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *redisListener) Cancel() {
	l.once.Do(func() { _ = l.sub.Close() })
}
