package serial

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/logger"
)

func newTestExecutor(t *testing.T, opts ...Option) *Executor {
	t.Helper()
	e := NewExecutor(logger.NewNoopLogger(), opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(ctx)
	})
	return e
}

func TestExecutorSerializesJobsPerKey(t *testing.T) {
	e := newTestExecutor(t)

	var inFlight, maxInFlight atomic.Int32
	counter := 0 // deliberately unsynchronized: only safe if jobs never overlap

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Run(context.Background(), e, "wallet:1", func(ctx context.Context) (int, error) {
				n := inFlight.Add(1)
				for {
					m := maxInFlight.Load()
					if n <= m || maxInFlight.CompareAndSwap(m, n) {
						break
					}
				}
				counter++
				time.Sleep(time.Millisecond)
				inFlight.Add(-1)
				return counter, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestExecutorPreservesSubmissionOrder(t *testing.T) {
	e := newTestExecutor(t)

	var mu sync.Mutex
	var order []int
	release := make(chan struct{})

	// the first job blocks so the rest queue up behind it in order
	first := make(chan struct{})
	go func() {
		_, _ = Run(context.Background(), e, "item:1", func(ctx context.Context) (struct{}, error) {
			close(first)
			<-release
			return struct{}{}, nil
		})
	}()
	<-first

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = Run(context.Background(), e, "item:1", func(ctx context.Context) (struct{}, error) {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return struct{}{}, nil
			})
		}(i)
		// wait until job i is queued before submitting the next one
		require.Eventually(t, func() bool {
			e.mu.Lock()
			defer e.mu.Unlock()
			return e.queues["item:1"].pending == i+2
		}, time.Second, time.Millisecond)
	}

	close(release)
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestExecutorRunsDifferentKeysConcurrently(t *testing.T) {
	e := newTestExecutor(t)

	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_, _ = Run(context.Background(), e, "wallet:a", func(ctx context.Context) (bool, error) {
			close(started)
			<-release
			return true, nil
		})
	}()
	<-started

	done := make(chan struct{})
	go func() {
		defer close(done)
		ok, err := Run(context.Background(), e, "wallet:b", func(ctx context.Context) (bool, error) {
			return true, nil
		})
		assert.NoError(t, err)
		assert.True(t, ok)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job for an unrelated key was blocked")
	}
	close(release)
}

func TestExecutorStartedJobSurvivesCallerCancellation(t *testing.T) {
	e := newTestExecutor(t)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	finished := make(chan error, 1)

	go func() {
		_, err := Run(ctx, e, "wallet:1", func(jobCtx context.Context) (int, error) {
			close(started)
			time.Sleep(20 * time.Millisecond)
			finished <- jobCtx.Err()
			return 1, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	}()

	<-started
	cancel()

	select {
	case jobErr := <-finished:
		assert.NoError(t, jobErr, "job context must not be canceled with the caller")
	case <-time.After(time.Second):
		t.Fatal("job did not finish")
	}
}

func TestExecutorSkipsJobsWhoseCallerGaveUp(t *testing.T) {
	e := newTestExecutor(t)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = Run(context.Background(), e, "wallet:1", func(ctx context.Context) (int, error) {
			close(started)
			<-release
			return 0, nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool
	result := make(chan error, 1)
	go func() {
		_, err := Run(ctx, e, "wallet:1", func(ctx context.Context) (int, error) {
			ran.Store(true)
			return 0, nil
		})
		result <- err
	}()

	require.Eventually(t, func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.queues["wallet:1"].pending == 2
	}, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-result, context.Canceled)

	close(release)
	// a later job on the same key proves the canceled one has been dequeued
	_, err := Run(context.Background(), e, "wallet:1", func(ctx context.Context) (int, error) { return 0, nil })
	require.NoError(t, err)
	assert.False(t, ran.Load())
}

func TestExecutorReturnsJobErrorsAndRecoversPanics(t *testing.T) {
	e := newTestExecutor(t)
	boom := errors.New("boom")

	_, err := Run(context.Background(), e, "k", func(ctx context.Context) (*int, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = Run(context.Background(), e, "k", func(ctx context.Context) (int, error) {
		panic("unexpected")
	})
	assert.ErrorContains(t, err, "panicked")

	v, err := Run(context.Background(), e, "k", func(ctx context.Context) (string, error) {
		return "still serving", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "still serving", v)
}

func TestExecutorRetiresIdleWorkers(t *testing.T) {
	e := newTestExecutor(t, WithIdleTimeout(10*time.Millisecond))

	for _, key := range []string{"a", "b", "c"} {
		_, err := Run(context.Background(), e, key, func(ctx context.Context) (int, error) { return 0, nil })
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool { return e.ActiveKeys() == 0 }, time.Second, 5*time.Millisecond)

	// a retired key gets a fresh worker
	v, err := Run(context.Background(), e, "a", func(ctx context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestExecutorShutdown(t *testing.T) {
	e := NewExecutor(logger.NewNoopLogger())

	release := make(chan struct{})
	var completed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Run(context.Background(), e, "wallet:1", func(ctx context.Context) (int, error) {
				<-release
				completed.Add(1)
				return 0, nil
			})
		}()
	}
	require.Eventually(t, func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		q, ok := e.queues["wallet:1"]
		return ok && q.pending == 10
	}, time.Second, time.Millisecond)

	shutdownErr := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr <- e.Shutdown(ctx)
	}()

	// new work is refused as soon as shutdown starts
	require.Eventually(t, func() bool {
		_, err := Run(context.Background(), e, "wallet:2", func(ctx context.Context) (int, error) { return 0, nil })
		return errors.Is(err, ErrExecutorClosed)
	}, time.Second, time.Millisecond)

	close(release)
	require.NoError(t, <-shutdownErr)
	wg.Wait()

	assert.Equal(t, int32(10), completed.Load(), "queued jobs drain before shutdown returns")
	assert.Equal(t, 0, e.ActiveKeys())
}
