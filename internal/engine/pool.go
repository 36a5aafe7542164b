package engine

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// chunksPerWorker oversubscribes the pool slightly so one slow chunk does not
// leave the other workers idle at the end of a run.
const chunksPerWorker = 4

// minParallel is the smallest input evaluated on more than one goroutine.
const minParallel = 64

// span is a half-open range [lo, hi) of candidate indices.
type span struct {
	lo, hi int
}

// workerCount resolves the configured worker count; values below 1 mean one
// worker per available CPU.
func workerCount(configured int) int {
	if configured < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return configured
}

// splitSpans divides [0, n) into contiguous spans in index order.
func splitSpans(n, workers int) []span {
	if n <= 0 {
		return nil
	}
	if workers <= 1 || n < minParallel {
		return []span{{0, n}}
	}
	chunks := workers * chunksPerWorker
	if chunks > n {
		chunks = n
	}
	size := (n + chunks - 1) / chunks
	spans := make([]span, 0, chunks)
	for lo := 0; lo < n; lo += size {
		spans = append(spans, span{lo: lo, hi: min(lo+size, n)})
	}
	return spans
}

// runSpans calls fn once per span on a pool of at most workers goroutines and
// waits for all of them. fn receives the span's position in spans so callers
// can write per-span results without locking.
func runSpans(spans []span, workers int, fn func(i int, s span)) {
	if len(spans) == 1 || workers <= 1 {
		for i, s := range spans {
			fn(i, s)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, s := range spans {
		g.Go(func() error {
			fn(i, s)
			return nil
		})
	}
	_ = g.Wait()
}
