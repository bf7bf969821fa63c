package dataflow

import (
	"context"
	"sync"
)

// FanIn merges the shard streams of a partitioned source into one. Each input must close
// once ctx is done. Order across inputs is not kept.
func FanIn[T any](ctx context.Context, streams ...Stream[T]) Stream[T] {
	out := make(chan T)
	var wg sync.WaitGroup
	for _, in := range streams {
		wg.Add(1)
		go func(in Stream[T]) {
			defer wg.Done()
			for item := range in {
				if !send(ctx, out, item) {
					return
				}
			}
		}(in)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
