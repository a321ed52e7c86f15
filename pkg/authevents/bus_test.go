package authevents

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jordanlanch/careconnect/pkg/cache"
	"github.com/jordanlanch/careconnect/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitAsync(ctx context.Context, l Listener) <-chan error {
	done := make(chan error, 1)
	go func() { done <- l.Wait(ctx) }()
	return done
}

func receive(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not return")
		return nil
	}
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "auth:signed_in:jane@example.com", Channel(" Jane@Example.com "))
}

func TestLocalBus_DeliversToListeners(t *testing.T) {
	bus := NewLocalBus()
	ctx := context.Background()

	first, err := bus.Register(ctx, "jane@example.com")
	require.NoError(t, err)
	second, err := bus.Register(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, bus.Waiting("jane@example.com"))

	require.NoError(t, bus.Publish(ctx, "Jane@Example.com"))
	assert.NoError(t, receive(t, waitAsync(ctx, first)))
	assert.NoError(t, receive(t, waitAsync(ctx, second)))
	assert.Zero(t, bus.Waiting("jane@example.com"))
}

func TestLocalBus_SignalBeforeWaitIsKept(t *testing.T) {
	bus := NewLocalBus()
	ctx := context.Background()

	l, err := bus.Register(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, "jane@example.com"))

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, l.Wait(waitCtx))
}

func TestLocalBus_OtherAddressIgnored(t *testing.T) {
	bus := NewLocalBus()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	l, err := bus.Register(ctx, "jane@example.com")
	require.NoError(t, err)
	defer l.Cancel()
	require.NoError(t, bus.Publish(context.Background(), "john@example.com"))

	assert.ErrorIs(t, receive(t, waitAsync(ctx, l)), context.DeadlineExceeded)
}

func TestLocalBus_CancelReleases(t *testing.T) {
	bus := NewLocalBus()

	l, err := bus.Register(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, bus.Waiting("jane@example.com"))

	l.Cancel()
	l.Cancel()
	assert.Zero(t, bus.Waiting("jane@example.com"))
}

func newRedisBus(t *testing.T) (*RedisBus, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := cache.Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBus(client, logger.Discard()), mr
}

func newPublisher(t *testing.T, mr *miniredis.Miniredis) *RedisBus {
	publisher := cache.Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = publisher.Close() })
	return NewRedisBus(publisher, logger.Discard())
}

func TestRedisBus_DeliversAcrossClients(t *testing.T) {
	bus, mr := newRedisBus(t)
	ctx := context.Background()

	l, err := bus.Register(ctx, "jane@example.com")
	require.NoError(t, err)
	defer l.Cancel()

	channel := Channel("jane@example.com")
	assert.Equal(t, 1, mr.PubSubNumSub(channel)[channel])

	require.NoError(t, newPublisher(t, mr).Publish(ctx, "JANE@example.com"))
	assert.NoError(t, receive(t, waitAsync(ctx, l)))
}

func TestRedisBus_SignalBeforeWaitIsKept(t *testing.T) {
	bus, mr := newRedisBus(t)
	ctx := context.Background()

	l, err := bus.Register(ctx, "jane@example.com")
	require.NoError(t, err)
	defer l.Cancel()

	require.NoError(t, newPublisher(t, mr).Publish(ctx, "jane@example.com"))
	time.Sleep(20 * time.Millisecond)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.NoError(t, l.Wait(waitCtx))
}

func TestRedisBus_Cancelled(t *testing.T) {
	bus, mr := newRedisBus(t)
	ctx, cancel := context.WithCancel(context.Background())

	l, err := bus.Register(ctx, "jane@example.com")
	require.NoError(t, err)
	done := waitAsync(ctx, l)

	cancel()
	assert.ErrorIs(t, receive(t, done), context.Canceled)

	l.Cancel()
	l.Cancel()
	channel := Channel("jane@example.com")
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(channel)[channel] == 0
	}, time.Second, 5*time.Millisecond)
}

func TestRedisBus_SubscribeFails(t *testing.T) {
	bus, mr := newRedisBus(t)
	mr.Close()

	_, err := bus.Register(context.Background(), "jane@example.com")
	assert.Error(t, err)
}
