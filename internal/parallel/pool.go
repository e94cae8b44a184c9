// Package parallel provides bounded fan-out helpers for running independent
// pieces of work on their own goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Range is a half-open index interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns the number of indices in r.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Split divides [0, n) into at most workers contiguous, non-empty ranges
// whose lengths differ by at most one. If workers is 0 or negative it
// defaults to the number of CPU cores.
func Split(n, workers int) []Range {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if n <= 0 {
		return nil
	}
	workers = min(workers, n)

	ranges := make([]Range, 0, workers)
	base, extra := n/workers, n%workers
	lo := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < extra {
			size++
		}
		ranges = append(ranges, Range{Lo: lo, Hi: lo + size})
		lo += size
	}
	return ranges
}

// ForEachRange runs fn once per range of Split(n, workers), each on its own
// goroutine. The first error cancels the context passed to the others and
// is returned after all of them have finished.
func ForEachRange(ctx context.Context, n, workers int, fn func(ctx context.Context, chunk int, r Range) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range Split(n, workers) {
		g.Go(func() error {
			return fn(ctx, i, r)
		})
	}
	return g.Wait()
}
