package concurrent

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Chunks splits [0,n) into at most workers contiguous ranges and runs fn on
// each range concurrently. workers <= 0 uses GOMAXPROCS. A single range runs
// on the calling goroutine.
//
// fn must only write to state owned by its own range.
func Chunks(ctx context.Context, n, workers int, fn func(ctx context.Context, lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		return fn(ctx, 0, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	size := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, lo, hi)
		})
	}
	return g.Wait()
}
