package serial

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
)

// ErrExecutorClosed is returned for work submitted after Shutdown
var ErrExecutorClosed = errors.New("serial executor is shut down")

// Default tuning values
const (
	DefaultQueueSize   = 100
	DefaultIdleTimeout = time.Minute
)

// Executor runs jobs one at a time per key, in submission order. Jobs for
// different keys run concurrently. Each key gets a queue and a worker that
// retires after being idle.
type Executor struct {
	logger      coreport.Logger
	queueSize   int
	idleTimeout time.Duration

	mu     sync.Mutex
	queues map[string]*keyQueue
	closed bool
	stop   chan struct{}
	wg     sync.WaitGroup
}

type keyQueue struct {
	jobs    chan *job
	pending int // submitted but not yet finished, guarded by Executor.mu
}

// job represents one queued unit of work
type job struct {
	ctx    context.Context
	fn     func(ctx context.Context) (any, error)
	result chan jobResult
}

type jobResult struct {
	value any
	err   error
}

// Option configures an Executor
type Option func(*Executor)

// WithQueueSize sets the per-key queue capacity
func WithQueueSize(size int) Option {
	return func(e *Executor) {
		if size > 0 {
			e.queueSize = size
		}
	}
}

// WithIdleTimeout sets how long a worker waits for work before retiring
func WithIdleTimeout(timeout time.Duration) Option {
	return func(e *Executor) {
		if timeout > 0 {
			e.idleTimeout = timeout
		}
	}
}

// NewExecutor creates a new executor
func NewExecutor(logger coreport.Logger, opts ...Option) *Executor {
	e := &Executor{
		logger:      logger,
		queueSize:   DefaultQueueSize,
		idleTimeout: DefaultIdleTimeout,
		queues:      make(map[string]*keyQueue),
		stop:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run submits fn under key and waits for its result.
//
// A job whose caller gave up before it started is skipped. Once started, a
// job runs with a context detached from caller cancellation, so it always
// finishes; a caller that stops waiting gets ctx.Err() and the job's outcome
// still stands.
func Run[T any](ctx context.Context, e *Executor, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	value, err := e.Submit(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if value == nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("serial executor: unexpected result type %T", value)
	}
	return typed, err
}

// Submit is the untyped form of Run
func (e *Executor) Submit(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrExecutorClosed
	}
	queue, ok := e.queues[key]
	if !ok {
		queue = &keyQueue{jobs: make(chan *job, e.queueSize)}
		e.queues[key] = queue
		e.wg.Add(1)
		go e.work(key, queue)
	}
	queue.pending++
	e.mu.Unlock()

	j := &job{
		ctx:    ctx,
		fn:     fn,
		result: make(chan jobResult, 1),
	}

	// pending > 0 keeps the worker alive, so this send always completes
	queue.jobs <- j

	select {
	case res := <-j.result:
		return res.value, res.err
	case <-ctx.Done():
		e.logger.Warn("Context canceled while waiting for serialized job", map[string]any{
			"key":   key,
			"error": ctx.Err().Error(),
		})
		return nil, ctx.Err()
	}
}

// work is the worker goroutine for a single key
func (e *Executor) work(key string, queue *keyQueue) {
	defer e.wg.Done()

	e.logger.Debug("Serial worker started", map[string]any{"key": key})

	idle := time.NewTimer(e.idleTimeout)
	defer idle.Stop()

	stopping := e.stop
	draining := false
	for {
		select {
		case j := <-queue.jobs:
			e.execute(key, j)
			e.finish(queue)
			if draining && e.retire(key, queue) {
				return
			}
			resetTimer(idle, e.idleTimeout)
		case <-idle.C:
			if e.retire(key, queue) {
				e.logger.Debug("Serial worker retired", map[string]any{"key": key})
				return
			}
			idle.Reset(e.idleTimeout)
		case <-stopping:
			if e.retire(key, queue) {
				return
			}
			// jobs are still on their way; keep draining without the stop case
			draining = true
			stopping = nil
		}
	}
}

// execute runs one job and delivers its result
func (e *Executor) execute(key string, j *job) {
	if err := j.ctx.Err(); err != nil {
		j.result <- jobResult{err: err}
		return
	}

	value, err := e.safeCall(key, j)
	j.result <- jobResult{value: value, err: err}
}

func (e *Executor) safeCall(key string, j *job) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Serialized job panicked", map[string]any{
				"key":   key,
				"panic": fmt.Sprint(r),
			})
			err = fmt.Errorf("serialized job for %s panicked: %v", key, r)
		}
	}()
	return j.fn(context.WithoutCancel(j.ctx))
}

func (e *Executor) finish(queue *keyQueue) {
	e.mu.Lock()
	queue.pending--
	e.mu.Unlock()
}

// retire removes the queue when nothing is pending. Called by the worker only.
func (e *Executor) retire(key string, queue *keyQueue) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if queue.pending > 0 {
		return false
	}
	delete(e.queues, key)
	return true
}

// ActiveKeys reports how many keys currently have a worker
func (e *Executor) ActiveKeys() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queues)
}

// Shutdown rejects new work and waits for queued jobs to finish or ctx to end
func (e *Executor) Shutdown(ctx context.Context) error {
	e.logger.Info("Shutting down serial executor", nil)

	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.stop)
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Serial executor shut down successfully", nil)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
