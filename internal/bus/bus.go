// Package bus implements an in-process publish/subscribe channel.
//
// Publishing never takes a lock: the subscriber registry is an immutable
// slice swapped atomically by Subscribe and Unsubscribe. Each subscriber
// sees messages in publish order. Subscribers registered after a message
// was published never see it.
package bus

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
)

// ErrNotSubscribed is returned by Unsubscribe for an unknown subscription.
var ErrNotSubscribed = errors.New("bus: subscription not registered")

// Channel is a typed publish/subscribe channel.
type Channel[M any] struct {
	subs       atomic.Pointer[[]*Subscription[M]]
	writeMu    sync.Mutex
	closed     atomic.Bool
	bufferSize int
}

// New creates a channel with DefaultBufferSize per subscriber.
func New[M any]() *Channel[M] {
	return NewWithBuffer[M](DefaultBufferSize)
}

// NewWithBuffer creates a channel with the given per-subscriber buffer.
func NewWithBuffer[M any](size int) *Channel[M] {
	if size < 1 {
		size = 1
	}
	c := &Channel[M]{bufferSize: size}
	empty := []*Subscription[M]{}
	c.subs.Store(&empty)
	return c
}

// Subscribe registers a new subscriber.
// After Close, the returned subscription is already done.
func (c *Channel[M]) Subscribe() *Subscription[M] {
	sub := newSubscription[M](c.bufferSize)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed.Load() {
		sub.close()
		return sub
	}

	cur := *c.subs.Load()
	next := make([]*Subscription[M], 0, len(cur)+1)
	next = append(next, cur...)
	next = append(next, sub)
	c.subs.Store(&next)
	return sub
}

// Unsubscribe removes sub and closes its Done channel.
// Returns ErrNotSubscribed if sub is not registered, which includes a
// second call for the same subscription.
func (c *Channel[M]) Unsubscribe(sub *Subscription[M]) error {
	if sub == nil {
		return ErrNotSubscribed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	cur := *c.subs.Load()
	i := slices.Index(cur, sub)
	if i < 0 {
		return ErrNotSubscribed
	}
	next := make([]*Subscription[M], 0, len(cur)-1)
	next = append(next, cur[:i]...)
	next = append(next, cur[i+1:]...)
	c.subs.Store(&next)
	sub.close()
	return nil
}

// Publish delivers m to every current subscriber without blocking.
// It returns the number of subscribers that accepted the message.
func (c *Channel[M]) Publish(m M) int {
	if c.closed.Load() {
		return 0
	}
	delivered := 0
	for _, sub := range *c.subs.Load() {
		if sub.send(m) {
			delivered++
		}
	}
	return delivered
}

// Len returns the number of registered subscribers.
func (c *Channel[M]) Len() int {
	return len(*c.subs.Load())
}

// Close unregisters every subscriber. Publishing after Close is a no-op.
func (c *Channel[M]) Close() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed.Swap(true) {
		return
	}
	for _, sub := range *c.subs.Load() {
		sub.close()
	}
	empty := []*Subscription[M]{}
	c.subs.Store(&empty)
}
