package pagination

import (
	"slices"

	"github.com/samber/lo"
)

// A single page of results as returned by a remote list endpoint.
// Never mutated once fetched.
type BackendPage[E any] struct {
	Items     []E
	Total     int // Total entries across all backend pages.
	PageCount int // Number of backend pages the remote reports.
}

// Maps a 1-based backend page number to the page fetched for it.
//
// A Cache only ever grows. Use [Cache.With] to merge in new pages, which returns
// a fresh map and leaves the receiver untouched so older snapshots stay valid.
type Cache[E any] map[int]BackendPage[E]

// Returns a new cache holding every entry of c plus the pages in fetched whose keys
// are not already present. Existing pages are never replaced.
func (c Cache[E]) With(fetched map[int]BackendPage[E]) Cache[E] {
	out := make(Cache[E], len(c)+len(fetched))
	for k, v := range fetched {
		out[k] = v
	}
	for k, v := range c {
		out[k] = v // old entries win
	}

	return out
}

func (c Cache[E]) Has(page int) bool {
	_, ok := c[page]
	return ok
}

// Which of the given backend pages are not cached yet, in the order given.
func (c Cache[E]) Missing(pages []int) []int {
	return lo.Filter(pages, func(p int, _ int) bool {
		return !c.Has(p)
	})
}

// Sorted page numbers currently held.
func (c Cache[E]) Pages() []int {
	keys := lo.Keys(c)
	slices.Sort(keys)

	return keys
}

// The total entry count as reported by the lowest cached page, or -1 if nothing is cached.
func (c Cache[E]) Total() int {
	pages := c.Pages()
	if len(pages) == 0 {
		return -1
	}

	return c[pages[0]].Total
}
