package download

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestQueue(attempts int) *Queue {
	logger, _ := test.NewNullLogger()
	return NewQueue(QueueConfig{
		Workers:        2,
		MaxAttempts:    attempts,
		InitialBackoff: time.Second,
		MaxBackoff:     10 * time.Second,
	}, logger)
}

type outcome struct {
	err      error
	attempts int
}

func TestQueue_RetriesUntilSuccess(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := newTestQueue(5)
		defer q.Close()

		var calls atomic.Int32
		var retries atomic.Int32
		done := make(chan outcome, 1)
		err := q.Submit(Task{
			ID: "flaky",
			Run: func(context.Context, int) error {
				if calls.Add(1) < 3 {
					return errors.New("transient")
				}
				return nil
			},
			OnRetry: func(int, error, time.Duration) { retries.Add(1) },
			OnDone:  func(err error, n int) { done <- outcome{err, n} },
		})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}

		got := <-done
		if got.err != nil {
			t.Errorf("final error = %v, want nil", got.err)
		}
		if got.attempts != 3 {
			t.Errorf("attempts = %d, want 3", got.attempts)
		}
		if retries.Load() != 2 {
			t.Errorf("retries = %d, want 2", retries.Load())
		}
	})
}

func TestQueue_GivesUpAfterMaxAttempts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := newTestQueue(4)
		defer q.Close()

		wantErr := errors.New("still down")
		done := make(chan outcome, 1)
		_ = q.Submit(Task{
			ID:     "down",
			Run:    func(context.Context, int) error { return wantErr },
			OnDone: func(err error, n int) { done <- outcome{err, n} },
		})

		got := <-done
		if !errors.Is(got.err, wantErr) {
			t.Errorf("final error = %v, want %v", got.err, wantErr)
		}
		if got.attempts != 4 {
			t.Errorf("attempts = %d, want 4", got.attempts)
		}
	})
}

func TestQueue_PermanentErrorStopsImmediately(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := newTestQueue(5)
		defer q.Close()

		wantErr := errors.New("404")
		done := make(chan outcome, 1)
		_ = q.Submit(Task{
			ID:     "gone",
			Run:    func(context.Context, int) error { return backoff.Permanent(wantErr) },
			OnDone: func(err error, n int) { done <- outcome{err, n} },
		})

		got := <-done
		if !errors.Is(got.err, wantErr) {
			t.Errorf("final error = %v, want %v", got.err, wantErr)
		}
		if got.attempts != 1 {
			t.Errorf("attempts = %d, want 1", got.attempts)
		}
	})
}

func TestQueue_UnmetConstraintDefersAttempt(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := newTestQueue(5)
		defer q.Close()

		var online atomic.Bool
		var ran atomic.Int32
		done := make(chan outcome, 1)
		start := time.Now()
		_ = q.Submit(Task{
			ID:         "offline",
			Constraint: online.Load,
			Run: func(context.Context, int) error {
				ran.Add(1)
				return nil
			},
			OnRetry: func(attempt int, err error, _ time.Duration) {
				if !errors.Is(err, ErrConstraintUnmet) {
					t.Errorf("retry error = %v, want ErrConstraintUnmet", err)
				}
				if attempt == 2 {
					online.Store(true)
				}
			},
			OnDone: func(err error, n int) { done <- outcome{err, n} },
		})

		got := <-done
		if got.err != nil {
			t.Errorf("final error = %v, want nil", got.err)
		}
		if ran.Load() != 1 {
			t.Errorf("Run called %d times, want 1", ran.Load())
		}
		if got.attempts != 3 {
			t.Errorf("attempts = %d, want 3", got.attempts)
		}
		if time.Since(start) < time.Second {
			t.Errorf("elapsed %v, want backoff between attempts", time.Since(start))
		}
	})
}

func TestQueue_SubmitAfterClose(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := newTestQueue(1)
		q.Close()
		q.Close()

		if err := q.Submit(Task{ID: "late"}); !errors.Is(err, ErrQueueClosed) {
			t.Errorf("Submit() error = %v, want ErrQueueClosed", err)
		}
	})
}

func TestQueue_CloseCancelsBackoff(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := newTestQueue(10)

		done := make(chan outcome, 1)
		_ = q.Submit(Task{
			ID:     "slow",
			Run:    func(context.Context, int) error { return errors.New("fail") },
			OnDone: func(err error, n int) { done <- outcome{err, n} },
		})
		synctest.Wait()

		q.Close()
		got := <-done
		if !errors.Is(got.err, context.Canceled) {
			t.Errorf("final error = %v, want context.Canceled", got.err)
		}
	})
}
