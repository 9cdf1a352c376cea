package backtest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Sweep runs every input on e concurrently, at most limit at a time
// (limit <= 0 means unbounded). Results come back in input order.
// The first failing input cancels the runs that have not started yet.
func Sweep(ctx context.Context, e *Engine, inputs []Input, limit int) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.Run(inputs[i])
			if err != nil {
				return fmt.Errorf("sweep input %d (%s): %w", i, inputs[i].Label, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Best returns the index of the result with the highest Sharpe ratio, or -1.
func Best(results []Result) int {
	best := -1
	for i, r := range results {
		if best < 0 || r.Metrics.SharpeRatio > results[best].Metrics.SharpeRatio {
			best = i
		}
	}
	return best
}
