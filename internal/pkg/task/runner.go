// Package task runs fire-and-forget work detached from the request that
// scheduled it.
package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/petnfc-api/internal/pkg/logger"
	"github.com/petnfc-api/internal/pkg/metrics"
)

const DefaultTimeout = 5 * time.Second

// Func is a unit of background work.
type Func func(ctx context.Context) error

// Scheduler is what services depend on to push work off the request path.
type Scheduler interface {
	Go(ctx context.Context, name string, fn Func)
}

// Runner executes each task in its own goroutine. The task context keeps the
// values of the scheduling context (logger, request id) but not its
// cancellation, and is bounded by the runner timeout. Failures are logged and
// counted, never retried.
type Runner struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{timeout: timeout}
}

func (r *Runner) Go(ctx context.Context, name string, fn Func) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		if err := run(tctx, fn); err != nil {
			metrics.TaskFailures.WithLabelValues(name).Inc()
			logger.Error(tctx, "background task failed", zap.String("task", name), zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight tasks finish or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func run(ctx context.Context, fn Func) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}

// Inline runs tasks synchronously on the caller's goroutine. Used in tests
// and offline commands where there is nothing to detach from.
type Inline struct{}

func (Inline) Go(ctx context.Context, name string, fn Func) {
	if err := run(ctx, fn); err != nil {
		logger.Error(ctx, "task failed", zap.String("task", name), zap.Error(err))
	}
}
