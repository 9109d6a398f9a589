// Package parallel splits per-sample work into CPU-sized chunks.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the item count below which work runs sequentially.
const DefaultThreshold = 1000

// Workers returns the number of chunks Parallelize uses for items.
func Workers(items int) int {
	if items <= 0 {
		return 0
	}
	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	return numWorkers
}

// Parallelize divides items into one contiguous range per worker and runs
// fn(start, end) for each range concurrently. It returns when all ranges are done.
func Parallelize(items int, fn func(start, end int)) {
	forEachChunk(items, func(_, start, end int) { fn(start, end) })
}

// ParallelizeWithThreshold runs fn(0, items) inline when items <= threshold
// and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// Reduce computes one partial result per chunk with fn and folds the partials
// with merge in chunk order, so floating-point sums are deterministic for a
// given CPU count.
func Reduce[T any](items, threshold int, zero T, fn func(start, end int) T, merge func(acc, part T) T) T {
	if items <= 0 {
		return zero
	}
	if items <= threshold {
		return merge(zero, fn(0, items))
	}

	partials := make([]T, Workers(items))
	used := make([]bool, len(partials))
	forEachChunk(items, func(chunk, start, end int) {
		partials[chunk] = fn(start, end)
		used[chunk] = true
	})

	acc := zero
	for i, part := range partials {
		if used[i] {
			acc = merge(acc, part)
		}
	}
	return acc
}

func forEachChunk(items int, fn func(chunk, start, end int)) {
	numWorkers := Workers(items)
	if numWorkers == 0 {
		return
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(chunk, s, e int) {
			defer wg.Done()
			fn(chunk, s, e)
		}(i, start, end)
	}
	wg.Wait()
}
