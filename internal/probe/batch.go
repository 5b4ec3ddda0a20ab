package probe

import (
	"context"
	"sync"
	"time"
)

// RunBatches processes items in fixed-width batches. All items of a batch run
// concurrently and the whole batch completes before the next one starts, with
// a mandatory pacing delay between batches. The delay is a politeness contract
// with the remote host, not a tunable throughput knob: it is never skipped and
// batches are never overlapped.
//
// fn is responsible for its own error handling; a failing item never stops the
// batch or the run. Cancelling the context stops scheduling at the next batch
// boundary.
func RunBatches[T any](ctx context.Context, items []T, width int, pacing time.Duration, fn func(ctx context.Context, item T)) {
	if width < 1 {
		width = 1
	}

	for start := 0; start < len(items); start += width {
		if start > 0 {
			select {
			case <-time.After(pacing):
			case <-ctx.Done():
				return
			}
		}
		if ctx.Err() != nil {
			return
		}

		end := start + width
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for _, item := range items[start:end] {
			wg.Add(1)
			go func(item T) {
				defer wg.Done()
				fn(ctx, item)
			}(item)
		}
		wg.Wait()
	}
}
