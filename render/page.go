package render

// Defaults for the limits that switch the engine into paged mode.
const (
	DefaultMaxTiles     = 16384
	DefaultMaxDimension = 16384
)

// pageTileCount returns the number of tiles on one page: as many whole rows
// as fit within both limits, at least one row, and an even number of rows
// when interleaved so no pair is split across pages.
func pageTileCount(l Layout, maxTiles, maxDimension int) int {
	rows := min(maxDimension/l.tileSize(), maxTiles/l.TilesPerRow)
	if l.RowInterleaved && rows > 1 {
		rows &^= 1
	}
	return max(1, rows) * l.TilesPerRow
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// update recomputes the window after anything that affects its size.
func (e *Engine) update() {
	l := e.layout
	remaining := max(1, e.src.Len()-e.viewOffset)

	rows := SurfaceRows(remaining, l.TilesPerRow, l.RowInterleaved)
	e.paged = remaining > e.maxTiles || rows*l.tileSize() > e.maxDimension

	if e.paged {
		e.pageTileCount = pageTileCount(l, e.maxTiles, e.maxDimension)
		e.pages = (remaining + e.pageTileCount - 1) / e.pageTileCount
		e.slots = e.pageTileCount
	} else {
		e.pageTileCount = remaining
		e.pages = 1
		e.slots = remaining
	}
	e.page = min(max(0, e.page), e.pages-1)
	e.rows = SurfaceRows(e.slots, l.TilesPerRow, l.RowInterleaved)
}

// base returns the source index shown in the first slot of the surface.
func (e *Engine) base() int {
	return e.viewOffset + e.page*e.pageTileCount
}

// Paged reports whether the engine only shows one page of the source.
func (e *Engine) Paged() bool {
	return e.paged
}

// Pages returns the number of pages, which is one when not paged.
func (e *Engine) Pages() int {
	return e.pages
}

// Page returns the current page index.
func (e *Engine) Page() int {
	return e.page
}

// PageTileCount returns the number of tile slots on a page.
func (e *Engine) PageTileCount() int {
	return e.pageTileCount
}

// SetPage shows page i, clamped to the available pages.
func (e *Engine) SetPage(i int) {
	e.page = i
	e.update()
	e.MarkFullRedraw()
}

// ViewOffset returns the source index considered to be the first tile.
func (e *Engine) ViewOffset() int {
	return e.viewOffset
}

// SetViewOffset shifts the source index shown first. A negative offset
// shows placeholders before the first tile.
func (e *Engine) SetViewOffset(n int) {
	e.viewOffset = n
	e.update()
	e.MarkFullRedraw()
}

// Base returns the source index shown in the top left slot.
func (e *Engine) Base() int {
	return e.base()
}

// WindowIndex returns the surface slot showing source index i, if any.
func (e *Engine) WindowIndex(i int) (int, bool) {
	slot := i - e.base()
	if slot < 0 || slot >= e.slots {
		return 0, false
	}
	return slot, true
}

// ShowIndex switches to the page containing source index i. It reports
// false if i comes before the view offset or past the last page.
func (e *Engine) ShowIndex(i int) bool {
	rel := i - e.viewOffset
	if rel < 0 {
		return false
	}
	page := rel / e.pageTileCount
	if page >= e.pages {
		return false
	}
	if page != e.page {
		e.SetPage(page)
	}
	return true
}
