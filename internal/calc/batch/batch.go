package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"ThermoCalc/internal/calc/diffusion"
)

var ErrNoItems = errors.New("no items")

// DiffusionInput takes the same item shape as the single calculation, so
// omitted fields fall back to the page defaults.
type DiffusionInput struct {
	Items []diffusion.Request `json:"items"`
}

func (in DiffusionInput) Parameters() []diffusion.Parameters {
	out := make([]diffusion.Parameters, len(in.Items))
	for i, item := range in.Items {
		out[i] = item.Parameters()
	}
	return out
}

type DiffusionResult struct {
	Results []diffusion.Result `json:"results"`
}

// Diffusion computes every item on at most workers goroutines
// (GOMAXPROCS when workers <= 0). Results keep the order of items.
// The first failing item cancels the rest.
func Diffusion(ctx context.Context, items []diffusion.Parameters, workers int) ([]diffusion.Result, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]diffusion.Result, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := diffusion.Calculate(item)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
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
