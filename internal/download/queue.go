package download

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Queue errors.
var (
	ErrQueueClosed     = errors.New("queue closed")
	ErrConstraintUnmet = errors.New("constraint not met")
)

const queueCapacity = 256

// Task is one unit of retryable background work.
type Task struct {
	ID string
	// Constraint gates every attempt. An unmet constraint counts as a
	// failed attempt and is retried with backoff. Nil means always met.
	Constraint func() bool
	// Run performs one attempt. Wrap an error with backoff.Permanent to
	// stop retrying.
	Run func(ctx context.Context, attempt int) error
	// OnRetry is called after a failed attempt that will be retried.
	OnRetry func(attempt int, err error, wait time.Duration)
	// OnDone is called once with the final outcome.
	OnDone func(err error, attempts int)
}

// QueueConfig bounds workers and the retry policy.
type QueueConfig struct {
	Workers        int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Queue runs tasks on a fixed pool of workers with exponential backoff.
type Queue struct {
	cfg   QueueConfig
	log   logrus.FieldLogger
	tasks chan Task

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts cfg.Workers workers.
func NewQueue(cfg QueueConfig, log logrus.FieldLogger) *Queue {
	cfg.Workers = max(1, cfg.Workers)
	cfg.MaxAttempts = max(1, cfg.MaxAttempts)
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	cfg.MaxBackoff = max(cfg.MaxBackoff, cfg.InitialBackoff)
	if log == nil {
		log = logrus.StandardLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		cfg:    cfg,
		log:    log,
		tasks:  make(chan Task, queueCapacity),
		ctx:    ctx,
		cancel: cancel,
	}
	for range cfg.Workers {
		q.wg.Go(q.worker)
	}
	return q
}

// Submit schedules t. It blocks while the queue is full.
func (q *Queue) Submit(t Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- t:
		return nil
	case <-q.ctx.Done():
		return ErrQueueClosed
	}
}

// Close cancels in-flight attempts and waits for the workers to exit.
// Tasks still queued are dropped without OnDone.
func (q *Queue) Close() {
	q.cancel()
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *Queue) worker() {
	for t := range q.tasks {
		if q.ctx.Err() != nil {
			continue
		}
		q.run(t)
	}
}

func (q *Queue) policy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = q.cfg.InitialBackoff
	b.MaxInterval = q.cfg.MaxBackoff
	b.MaxElapsedTime = 0
	b.Multiplier = 2
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(q.cfg.MaxAttempts-1)), q.ctx)
}

func (q *Queue) run(t Task) {
	attempt := 0
	op := func() error {
		attempt++
		if t.Constraint != nil && !t.Constraint() {
			return ErrConstraintUnmet
		}
		return t.Run(q.ctx, attempt)
	}
	notify := func(err error, wait time.Duration) {
		q.log.WithFields(logrus.Fields{
			"task":    t.ID,
			"attempt": attempt,
			"wait":    wait.Round(time.Millisecond),
		}).WithError(err).Debug("attempt failed, retrying")
		if t.OnRetry != nil {
			t.OnRetry(attempt, err, wait)
		}
	}

	err := backoff.RetryNotify(op, q.policy(), notify)
	if t.OnDone != nil {
		t.OnDone(err, attempt)
	}
}
