// Package worker runs blocking storage calls on a bounded goroutine pool so
// that request handlers only wait on a completion signal.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/billingcat/userapi/metrics"
	"github.com/panjf2000/ants/v2"
)

// Pool is a bounded set of workers.
type Pool struct {
	p      *ants.Pool
	logger *slog.Logger
}

// New creates a pool with size workers. Submitting to a busy pool waits for
// a free worker.
func New(size int, logger *slog.Logger) (*Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p, err := ants.NewPool(size, ants.WithPanicHandler(func(v any) {
		logger.Error("worker panic", "panic", v)
	}))
	if err != nil {
		return nil, fmt.Errorf("cannot create worker pool: %w", err)
	}
	return &Pool{p: p, logger: logger}, nil
}

// Cap returns the number of workers.
func (p *Pool) Cap() int { return p.p.Cap() }

// Running returns the number of busy workers.
func (p *Pool) Running() int { return p.p.Running() }

// Close waits up to timeout for running operations and stops the workers.
func (p *Pool) Close(timeout time.Duration) error {
	return p.p.ReleaseTimeout(timeout)
}

// Future is the pending result of a submitted operation.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Done is closed once the operation has finished.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the operation finished or ctx is done. Abandoning a
// future does not stop the operation.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) finish(v T, err error) {
	f.val, f.err = v, err
	close(f.done)
}

// Submit hands fn to a worker and returns immediately. op names the
// operation in metrics and logs.
func Submit[T any](ctx context.Context, p *Pool, op string, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	err := p.p.Submit(func() {
		var (
			v   T
			err error
		)
		start := time.Now()
		metrics.WorkersBusy.Inc()
		defer func() {
			metrics.WorkersBusy.Dec()
			if r := recover(); r != nil {
				p.logger.Error("operation panicked", "operation", op, "panic", r)
				err = fmt.Errorf("%s: panic: %v", op, r)
			}
			metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
			metrics.OperationsTotal.WithLabelValues(op, metrics.Status(err)).Inc()
			f.finish(v, err)
		}()
		v, err = fn(ctx)
	})
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(op, "rejected").Inc()
		var zero T
		f.finish(zero, fmt.Errorf("%s: %w", op, err))
	}
	return f
}

// Do submits fn and waits for its result.
func Do[T any](ctx context.Context, p *Pool, op string, fn func(context.Context) (T, error)) (T, error) {
	return Submit(ctx, p, op, fn).Wait(ctx)
}

// Exec is Do for operations without a result.
func Exec(ctx context.Context, p *Pool, op string, fn func(context.Context) error) error {
	_, err := Do(ctx, p, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
