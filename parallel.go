package meanshift

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// forEachParallel calls fn(i) for every i in [0, n) on at most workers
// goroutines and returns after all calls finish. fn must only write state
// owned by index i. With workers <= 1 the calls run in order on the caller's
// goroutine.
func forEachParallel(n, workers int, fn func(i int)) {
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

// forEachRowRange splits [0, n) into contiguous ranges, one per worker, and
// calls fn(start, end) for each range concurrently. Since ranges don't
// overlap, fn needs no synchronization for writes indexed by row.
func forEachRowRange(n, workers int, fn func(start, end int)) {
	if workers <= 1 || n <= 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(startRow, endRow)
	}

	wg.Wait()
}
