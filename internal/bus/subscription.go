package bus

import (
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the per-subscriber buffer used by New.
const DefaultBufferSize = 64

// Subscription receives messages published after it was registered.
type Subscription[M any] struct {
	C    <-chan M
	Done <-chan struct{}

	ch        chan M
	doneCh    chan struct{}
	closeOnce sync.Once
	dropped   atomic.Uint64
}

func newSubscription[M any](size int) *Subscription[M] {
	s := &Subscription[M]{
		ch:     make(chan M, size),
		doneCh: make(chan struct{}),
	}
	s.C = s.ch
	s.Done = s.doneCh
	return s
}

// Dropped returns how many messages were discarded because the buffer was full.
func (s *Subscription[M]) Dropped() uint64 {
	return s.dropped.Load()
}

// send delivers m without blocking. Drops if the buffer is full.
func (s *Subscription[M]) send(m M) bool {
	select {
	case <-s.doneCh:
		return false
	default:
	}
	select {
	case s.ch <- m:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// close signals the subscriber to stop by closing doneCh.
// The message channel stays open so a concurrent publisher never panics.
func (s *Subscription[M]) close() {
	s.closeOnce.Do(func() {
		close(s.doneCh)
	})
}
