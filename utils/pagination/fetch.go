package pagination

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// Fetches a single backend page.
type PageFunc[E any] func(ctx context.Context, page int) (BackendPage[E], error)

// Adapts a single page fetcher into a [FetchFunc] that requests all missing pages at once.
// The first failure cancels the remaining requests and is returned on its own.
func FetchEach[E any](fetchOne PageFunc[E]) FetchFunc[E] {
	return func(ctx context.Context, pages []int) (map[int]BackendPage[E], error) {
		var mu sync.Mutex
		out := make(map[int]BackendPage[E], len(pages))

		p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
		for _, page := range pages {
			p.Go(func(ctx context.Context) error {
				bp, err := fetchOne(ctx, page)
				if err != nil {
					return err
				}

				mu.Lock()
				out[page] = bp
				mu.Unlock()

				return nil
			})
		}

		if err := p.Wait(); err != nil {
			return nil, err
		}

		return out, nil
	}
}
