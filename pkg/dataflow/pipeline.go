package dataflow

import (
	"context"
	"sync"
	"time"
)

// Stream is a read-only channel of items.
type Stream[T any] <-chan T

// Map applies fn to every item. Items whose fn keeps failing after retries are dropped
// after the error handler has seen the error.
func Map[In, Out any](ctx context.Context, input Stream[In], fn func(context.Context, In) (Out, error), opts ...Option) Stream[Out] {
	cfg := newConfig(opts)
	out := make(chan Out, cfg.bufferSize)

	run(ctx, cfg, input, func(item In) bool {
		var res Out
		err := attempt(ctx, cfg, func() error {
			var err error
			res, err = fn(ctx, item)
			return err
		})
		if err != nil {
			if cfg.errorHandler != nil {
				cfg.errorHandler(err)
			}
			return true
		}
		return send(ctx, out, res)
	}, func() { close(out) })

	return out
}

// Batch groups consecutive items into slices of at most size. The last batch may be short.
func Batch[T any](ctx context.Context, input Stream[T], size int) Stream[[]T] {
	if size < 1 {
		size = 1
	}
	out := make(chan []T)
	go func() {
		defer close(out)
		buf := make([]T, 0, size)
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-input:
				if !ok {
					if len(buf) > 0 {
						send(ctx, out, buf)
					}
					return
				}
				buf = append(buf, item)
				if len(buf) < size {
					continue
				}
				if !send(ctx, out, buf) {
					return
				}
				buf = make([]T, 0, size)
			}
		}
	}()
	return out
}

// ForEach runs fn for every item and blocks until the stream is drained or ctx is done.
// It returns ctx's error, or else the first error the error handler did not absorb.
func ForEach[T any](ctx context.Context, input Stream[T], fn func(context.Context, T) error, opts ...Option) error {
	cfg := newConfig(opts)

	var errOnce sync.Once
	var firstErr error
	done := make(chan struct{})

	run(ctx, cfg, input, func(item T) bool {
		err := attempt(ctx, cfg, func() error { return fn(ctx, item) })
		if err != nil && (cfg.errorHandler == nil || !cfg.errorHandler(err)) {
			errOnce.Do(func() { firstErr = err })
		}
		return true
	}, func() { close(done) })

	<-done
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return firstErr
}

// run starts cfg.workers goroutines feeding input items to handle until input closes,
// ctx is done or handle returns false. finish runs once every worker has stopped.
func run[T any](ctx context.Context, cfg *config, input Stream[T], handle func(T) bool, finish func()) {
	var wg sync.WaitGroup
	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-input:
					if !ok || !handle(item) {
						return
					}
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		finish()
	}()
}

// send delivers item unless ctx is done first.
func send[T any](ctx context.Context, out chan<- T, item T) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- item:
		return true
	}
}

// attempt calls op once plus up to cfg.maxRetries retries.
func attempt(ctx context.Context, cfg *config, op func() error) error {
	err := op()
	for i := 1; err != nil && i <= cfg.maxRetries; i++ {
		if cfg.backoff != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.backoff(i)):
			}
		}
		err = op()
	}
	return err
}
