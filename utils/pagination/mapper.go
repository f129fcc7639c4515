package pagination

// Window describes which entries a single UI page shows and which backend pages hold them.
// Start and End are zero-based global entry indexes, both inclusive.
type Window struct {
	Start     int
	End       int
	FirstPage int // 1-based backend page holding Start.
	LastPage  int // 1-based backend page holding End.
}

// Maps a 1-based UI page onto the backend pages that contain its entries.
// For example, with 20 entries per UI page and 50 per backend page:
//
//	MapPage(3, 20, 50) = {Start: 40, End: 59, FirstPage: 1, LastPage: 2}
//
// The result is only meaningful for uiPage >= 1 and positive page sizes.
func MapPage(uiPage, perPage, perBackendPage int) Window {
	start := (uiPage - 1) * perPage
	end := uiPage*perPage - 1

	return Window{
		Start:     start,
		End:       end,
		FirstPage: start/perBackendPage + 1,
		LastPage:  end/perBackendPage + 1,
	}
}

// Pages returns every backend page number in [FirstPage, LastPage].
func (w Window) Pages() []int {
	pages := make([]int, 0, w.LastPage-w.FirstPage+1)
	for p := w.FirstPage; p <= w.LastPage; p++ {
		pages = append(pages, p)
	}

	return pages
}

// Number of UI pages needed to show total entries, never less than 1.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}

	return (total + perPage - 1) / perPage // round to next largest int (ceil)
}
