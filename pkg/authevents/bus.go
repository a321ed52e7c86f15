package authevents

import (
	"context"
	"strings"
	"sync"
)

// ChannelPrefix prefixes the per-address sign-in channel
const ChannelPrefix = "auth:signed_in:"

// Bus carries "this address signed in" signals from the auth hook to
// wizards awaiting confirmation
type Bus interface {
	Publish(ctx context.Context, email string) error
	// Register starts listening for email. Any signal published after
	// Register returns is delivered to the Listener, even one sent before
	// Wait is called.
	Register(ctx context.Context, email string) (Listener, error)
}

// Listener is a registered interest in one address signing in
type Listener interface {
	// Wait blocks until the address signs in or ctx ends
	Wait(ctx context.Context) error
	// Cancel releases the registration. It is safe to call more than once.
	Cancel()
}

// Channel returns the channel an address is announced on. Addresses are
// compared case-insensitively.
func Channel(email string) string {
	return ChannelPrefix + strings.ToLower(strings.TrimSpace(email))
}

// LocalBus delivers signals within one process
type LocalBus struct {
	mu      sync.Mutex
	waiters map[string]map[chan struct{}]struct{}
}

// NewLocalBus creates an in-process bus
func NewLocalBus() *LocalBus {
	return &LocalBus{waiters: make(map[string]map[chan struct{}]struct{})}
}

// Publish wakes every listener for email
func (b *LocalBus) Publish(ctx context.Context, email string) error {
	key := Channel(email)

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.waiters[key] {
		close(ch)
	}
	delete(b.waiters, key)
	return nil
}

// Register adds a listener for email
func (b *LocalBus) Register(ctx context.Context, email string) (Listener, error) {
	key := Channel(email)
	ch := make(chan struct{})

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.waiters[key] == nil {
		b.waiters[key] = make(map[chan struct{}]struct{})
	}
	b.waiters[key][ch] = struct{}{}
	return &localListener{bus: b, key: key, signalled: ch}, nil
}

func (b *LocalBus) remove(key string, ch chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.waiters[key]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(b.waiters, key)
		}
	}
}

// Waiting reports how many listeners are registered for email
func (b *LocalBus) Waiting(email string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.waiters[Channel(email)])
}

type localListener struct {
	bus       *LocalBus
	key       string
	signalled chan struct{}
}

func (l *localListener) Wait(ctx context.Context) error {
	select {
	case <-l.signalled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *localListener) Cancel() {
	l.bus.remove(l.key, l.signalled)
}
