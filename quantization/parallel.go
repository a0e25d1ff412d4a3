package quantization

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/distilgo/colorspace"
)

// MapAll maps every pixel in the buffer to its representative color index.
// The buffer is split into contiguous shards mapped concurrently, so the
// quantizer must be frozen. Cancellation is honored at shard granularity;
// on error the partial result is discarded. workers <= 0 uses GOMAXPROCS,
// workers == 1 runs inline.
func MapAll(ctx context.Context, q Quantizer, pixels []colorspace.RGB, workers int) ([]int, error) {
	if len(pixels) == 0 {
		return []int{}, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(pixels))

	indexes := make([]int, len(pixels))

	if workers == 1 {
		for i, p := range pixels {
			if i&1023 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}

			indexes[i] = q.Map(p)
		}

		return indexes, nil
	}

	g, ctx := errgroup.WithContext(ctx)

	chunk := (len(pixels) + workers - 1) / workers
	for start := 0; start < len(pixels); start += chunk {
		end := min(start+chunk, len(pixels))

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			for i := start; i < end; i++ {
				indexes[i] = q.Map(pixels[i])
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return indexes, nil
}
