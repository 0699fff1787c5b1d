package model

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/crewmesh/core"
	"github.com/hupe1980/crewmesh/internal/metrics"
	"github.com/hupe1980/crewmesh/logging"
)

// Middleware decorates a Completer.
type Middleware func(Completer) Completer

// Chain applies middlewares to c so that the first middleware is outermost.
func Chain(c Completer, mws ...Middleware) Completer {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}

// wrapped keeps the Info of the decorated completer visible through middleware.
type wrapped struct {
	CompleterFunc
	inner Completer
}

func (w wrapped) Info() Info { return InfoOf(w.inner) }

func wrap(inner Completer, fn CompleterFunc) Completer {
	return wrapped{CompleterFunc: fn, inner: inner}
}

// WithTimeout bounds every completion call by d. A deadline hit is reported as
// a CompletionError wrapping context.DeadlineExceeded, so crews treat it as an
// ordinary task failure. d <= 0 disables the timeout.
func WithTimeout(d time.Duration) Middleware {
	return func(next Completer) Completer {
		if d <= 0 {
			return next
		}
		return wrap(next, func(ctx context.Context, req Request) (string, error) {
			callCtx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			out, err := next.Complete(callCtx, req)
			if err == nil {
				return out, nil
			}
			if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil && !errors.Is(err, core.ErrCompletion) {
				info := InfoOf(next)
				return "", core.NewCompletionError(info.Provider, info.Name, err)
			}
			return "", err
		})
	}
}

// WithRateLimit throttles completion calls through limiter. Waiting honours
// ctx; a cancelled wait is reported as a CompletionError.
func WithRateLimit(limiter *rate.Limiter) Middleware {
	return func(next Completer) Completer {
		if limiter == nil {
			return next
		}
		return wrap(next, func(ctx context.Context, req Request) (string, error) {
			if err := limiter.Wait(ctx); err != nil {
				info := InfoOf(next)
				return "", core.NewCompletionError(info.Provider, info.Name, err)
			}
			return next.Complete(ctx, req)
		})
	}
}

// WithInstrumentation logs and records metrics for every completion call.
// Either argument may be nil.
func WithInstrumentation(logger *logging.CrewLogger, collector *metrics.Collector) Middleware {
	return func(next Completer) Completer {
		info := InfoOf(next)
		return wrap(next, func(ctx context.Context, req Request) (string, error) {
			start := time.Now()
			out, err := next.Complete(ctx, req)
			dur := time.Since(start)

			if logger != nil {
				logger.LogLLMCall(info.Provider, info.Name, dur, err)
			}
			collector.RecordCompletion(info.Provider, info.Name, metrics.StatusOf(err), dur)
			return out, err
		})
	}
}
