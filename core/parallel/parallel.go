// Package parallel provides fan-out helpers for CPU-bound work.
// Tree construction and batch prediction are embarrassingly parallel:
// workers read shared immutable data and write only to their own output
// slots, so no synchronization beyond the final join is needed.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items across workers (one per available CPU core)
// and runs fn on each contiguous range [start, end).
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeWorkers(items, runtime.NumCPU(), fn)
}

// ParallelizeWorkers is Parallelize with an explicit worker count.
// A non-positive count falls back to the number of CPU cores.
func ParallelizeWorkers(items, workers int, fn func(start, end int)) {
	if items == 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}

	// Ceiling division so every item is covered
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items is at or
// below threshold, and in parallel otherwise. Small inputs are not worth
// the goroutine overhead.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
