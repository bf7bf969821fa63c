package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/locvowork/empcrud/internal/domain"
	"github.com/locvowork/empcrud/internal/logger"
	"github.com/locvowork/empcrud/pkg/dataflow"
)

// DocSink receives rebuilt search documents. ElasticSearchClient implements it.
type DocSink interface {
	ResetIndex(ctx context.Context) error
	BulkIndexEmployees(ctx context.Context, docs []EmployeeDoc) error
}

type ReindexOptions struct {
	BatchSize int
	Workers   int
	// Shards is the number of concurrent readers, each scanning its own slice of the table.
	Shards    int
	Retries   int
	Backoff   time.Duration
}

func (o *ReindexOptions) normalize() {
	if o.BatchSize <= 0 {
		o.BatchSize = 500
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.Shards <= 0 {
		o.Shards = 1
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
}

// Reindex rebuilds the search index from the record store. The table is split into
// Shards offset ranges ordered by emp_id, read concurrently and merged; rows are mapped to
// documents and bulk-loaded in batches. It returns the number of documents indexed.
// Rows written while the scan runs may be missed or indexed twice; the write path's own
// mirroring covers them.
func Reindex(ctx context.Context, repo domain.EmployeeRepository, sink DocSink, opts ReindexOptions) (int64, error) {
	opts.normalize()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	total, err := repo.CountBy(ctx, domain.NewEmployeeCriteria())
	if err != nil {
		return 0, fmt.Errorf("reindex: count employees: %w", err)
	}
	if err := sink.ResetIndex(ctx); err != nil {
		return 0, err
	}

	var sources []dataflow.Stream[domain.Employee]
	var errcs []<-chan error
	for _, r := range shardRanges(int(total), opts.Shards) {
		emps, errc := streamEmployees(ctx, repo, r, opts.BatchSize)
		sources = append(sources, emps)
		errcs = append(errcs, errc)
	}

	docs := dataflow.Map(ctx, dataflow.FanIn(ctx, sources...), func(_ context.Context, e domain.Employee) (EmployeeDoc, error) {
		return NewEmployeeDoc(e), nil
	}, dataflow.WithWorkers(opts.Workers), dataflow.WithBufferSize(opts.BatchSize))

	var indexed int64
	err = dataflow.ForEach(ctx, dataflow.Batch(ctx, docs, opts.BatchSize), func(ctx context.Context, batch []EmployeeDoc) error {
		if err := sink.BulkIndexEmployees(ctx, batch); err != nil {
			return err
		}
		n := atomic.AddInt64(&indexed, int64(len(batch)))
		logger.DebugLog(ctx, "reindex: %d documents indexed", n)
		return nil
	},
		dataflow.WithRetry(opts.Retries, dataflow.ConstantBackoff(opts.Backoff)),
		dataflow.WithErrorHandler(func(err error) bool {
			logger.WarnLog(ctx, "reindex: bulk failed after %d retries: %v", opts.Retries, err)
			return false
		}),
	)
	if err != nil {
		return indexed, fmt.Errorf("reindex: %w", err)
	}
	for _, errc := range errcs {
		if err := <-errc; err != nil {
			return indexed, fmt.Errorf("reindex: read employees: %w", err)
		}
	}
	return indexed, nil
}

// offsetRange is the half-open row range [from, to) of the emp_id ordered table.
type offsetRange struct {
	from, to int
}

// shardRanges splits total rows into at most shards contiguous, non-empty ranges.
func shardRanges(total, shards int) []offsetRange {
	if total <= 0 {
		return nil
	}
	if shards > total {
		shards = total
	}
	per := (total + shards - 1) / shards
	ranges := make([]offsetRange, 0, shards)
	for from := 0; from < total; from += per {
		to := from + per
		if to > total {
			to = total
		}
		ranges = append(ranges, offsetRange{from: from, to: to})
	}
	return ranges
}

// streamEmployees emits the employees of r ordered by emp_id, reading at most pageSize rows
// per query. The error channel yields exactly one value once the source is done.
func streamEmployees(ctx context.Context, repo domain.EmployeeRepository, r offsetRange, pageSize int) (dataflow.Stream[domain.Employee], <-chan error) {
	out := make(chan domain.Employee)
	errc := make(chan error, 1)
	criteria := domain.NewEmployeeCriteria().OrderBy("emp_id")

	go func() {
		defer close(out)
		for offset := r.from; offset < r.to; offset += pageSize {
			limit := pageSize
			if rest := r.to - offset; rest < limit {
				limit = rest
			}
			page, err := repo.ListBy(ctx, criteria, limit, offset)
			if err != nil {
				errc <- err
				return
			}
			for _, e := range page {
				select {
				case <-ctx.Done():
					errc <- ctx.Err()
					return
				case out <- e:
				}
			}
			if len(page) < limit {
				break
			}
		}
		errc <- nil
	}()
	return out, errc
}
