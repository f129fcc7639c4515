package pagination

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidPage = errors.New("page must be a positive number")

// Retrieves the given backend pages from a remote. Implementations may return fewer pages
// than requested when the remote has run out of data.
type FetchFunc[E any] func(ctx context.Context, pages []int) (map[int]BackendPage[E], error)

// Immutable navigation snapshot for one paginated message.
type State[E any] struct {
	Page       int // Current 1-based UI page.
	TotalPages int
	Cache      Cache[E]
}

// Stitches UI pages out of backend pages. The two page sizes are independent, so one UI page
// may span several backend pages and one backend page may serve several UI pages.
//
// A nil Fetch means the whole list is already in the cache and no remote calls are made.
type Pager[E any] struct {
	PerPage        int
	PerBackendPage int
	Fetch          FetchFunc[E]
}

// Builds a fetchless pager and its page 1 state for a list held fully in memory.
// The whole list is stored as a single backend page.
func NewStatic[E any](items []E, perPage int) (Pager[E], State[E]) {
	pager := Pager[E]{PerPage: perPage, PerBackendPage: max(len(items), 1)}
	state := State[E]{
		Page:       1,
		TotalPages: TotalPages(len(items), perPage),
		Cache: Cache[E]{
			1: {Items: items, Total: len(items), PageCount: 1},
		},
	}

	return pager, state
}

// Fetches and slices the first requested page from an empty cache.
func (p Pager[E]) Start(ctx context.Context, uiPage int) ([]E, State[E], error) {
	return p.GoToPage(ctx, uiPage, State[E]{Page: uiPage, TotalPages: 1, Cache: Cache[E]{}})
}

// Returns the entries shown on uiPage along with the state for that page.
//
// Only backend pages missing from st.Cache are fetched. On error the returned state is st itself,
// so nothing fetched by a failed call leaks into later renders.
func (p Pager[E]) GoToPage(ctx context.Context, uiPage int, st State[E]) ([]E, State[E], error) {
	if uiPage < 1 {
		return nil, st, fmt.Errorf("%w: %d", ErrInvalidPage, uiPage)
	}

	win := MapPage(uiPage, p.PerPage, p.PerBackendPage)

	cache := st.Cache
	if cache == nil {
		cache = Cache[E]{}
	}

	if missing := cache.Missing(win.Pages()); len(missing) > 0 && p.Fetch != nil {
		fetched, err := p.Fetch(ctx, missing)
		if err != nil {
			return nil, st, err
		}

		cache = cache.With(fetched)
	}

	items := p.slice(win, cache)

	next := State[E]{
		Page:       uiPage,
		TotalPages: st.TotalPages,
		Cache:      cache,
	}
	if total := cache.Total(); total >= 0 {
		next.TotalPages = TotalPages(total, p.PerPage)
	}

	return items, next, nil
}

// Concatenates, in page order, the part of each backend page in the window that falls within [Start, End].
// A backend page may hold fewer items than PerBackendPage (the last one usually does).
func (p Pager[E]) slice(win Window, cache Cache[E]) []E {
	items := make([]E, 0, p.PerPage)
	for page := win.FirstPage; page <= win.LastPage; page++ {
		bp, ok := cache[page]
		if !ok {
			continue
		}

		offset := (page - 1) * p.PerBackendPage
		from := max(win.Start-offset, 0)
		to := min(win.End-offset+1, len(bp.Items))
		if from < to {
			items = append(items, bp.Items[from:to]...)
		}
	}

	return items
}
