package dataflow_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/locvowork/empcrud/pkg/dataflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emit is a finite source that stops early when ctx is done.
func emit[T any](ctx context.Context, items ...T) dataflow.Stream[T] {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case out <- item:
			}
		}
	}()
	return out
}

type row struct {
	ID   string
	Name string
}

func TestPipeline_MapRetryForEach(t *testing.T) {
	ctx := context.Background()

	source := emit(ctx, "1,alice_01", "2,bob_0002", "retry,carol_03", "broken")

	var parseErrs int32
	parsed := dataflow.Map(ctx, source, func(_ context.Context, s string) (row, error) {
		parts := strings.Split(s, ",")
		if len(parts) != 2 {
			return row{}, fmt.Errorf("invalid format %q", s)
		}
		return row{ID: parts[0], Name: parts[1]}, nil
	}, dataflow.WithWorkers(2), dataflow.WithErrorHandler(func(error) bool {
		atomic.AddInt32(&parseErrs, 1)
		return true
	}))

	var attempts int32
	saved := dataflow.Map(ctx, parsed, func(_ context.Context, r row) (row, error) {
		if r.ID == "retry" && atomic.AddInt32(&attempts, 1) < 3 {
			return row{}, errors.New("transient error")
		}
		return r, nil
	}, dataflow.WithRetry(3, dataflow.ConstantBackoff(time.Millisecond)))

	var mu sync.Mutex
	var names []string
	err := dataflow.ForEach(ctx, saved, func(_ context.Context, r row) error {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, r.Name)
		return nil
	})
	require.NoError(t, err)

	sort.Strings(names)
	assert.Equal(t, []string{"alice_01", "bob_0002", "carol_03"}, names)
	assert.Equal(t, int32(1), atomic.LoadInt32(&parseErrs))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestBatch(t *testing.T) {
	ctx := context.Background()

	batches := dataflow.Batch(ctx, emit(ctx, 1, 2, 3, 4, 5), 2)

	var got [][]int
	require.NoError(t, dataflow.ForEach(ctx, batches, func(_ context.Context, b []int) error {
		got = append(got, b)
		return nil
	}))
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, got)
}

func TestForEach_ReturnsFirstUnhandledError(t *testing.T) {
	ctx := context.Background()

	err := dataflow.ForEach(ctx, emit(ctx, 1, 2, 3), func(_ context.Context, n int) error {
		if n == 2 {
			return errors.New("bulk rejected")
		}
		return nil
	})
	assert.EqualError(t, err, "bulk rejected")
}

func TestForEach_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	never := make(chan int)
	err := dataflow.ForEach(ctx, dataflow.Stream[int](never), func(context.Context, int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFanIn(t *testing.T) {
	ctx := context.Background()

	merged := dataflow.FanIn(ctx, emit(ctx, 1, 2, 3), emit(ctx, 4, 5), emit[int](ctx))

	var got []int
	require.NoError(t, dataflow.ForEach(ctx, merged, func(_ context.Context, n int) error {
		got = append(got, n)
		return nil
	}))
	sort.Ints(got)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestFanIn_NoInputs(t *testing.T) {
	ctx := context.Background()

	_, open := <-dataflow.FanIn[int](ctx)
	assert.False(t, open)
}

func TestForEach_ErrorHandlerAbsorbs(t *testing.T) {
	ctx := context.Background()

	var seen int32
	err := dataflow.ForEach(ctx, emit(ctx, 1, 2, 3), func(_ context.Context, n int) error {
		return fmt.Errorf("item %d rejected", n)
	}, dataflow.WithErrorHandler(func(error) bool {
		atomic.AddInt32(&seen, 1)
		return true
	}))
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&seen))
}
