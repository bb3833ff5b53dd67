package render

import (
	"image"
	"image/color"

	"github.com/bodgit/tilebravo/edit"
	"github.com/bodgit/tilebravo/tile"
)

// An Option configures an Engine.
type Option func(*Engine)

// WithFrameRequester registers fn to schedule a frame, in the manner of
// requestAnimationFrame. The engine calls it at most once between frames
// no matter how many regions are marked dirty, passing a callback that
// paints the frame.
func WithFrameRequester(fn func(func())) Option {
	return func(e *Engine) {
		e.requestFrame = fn
	}
}

// WithMaxTiles sets the number of tiles above which the engine pages.
func WithMaxTiles(n int) Option {
	return func(e *Engine) {
		e.maxTiles = max(1, n)
	}
}

// WithMaxDimension sets the surface height in pixels above which the
// engine pages.
func WithMaxDimension(px int) Option {
	return func(e *Engine) {
		e.maxDimension = max(1, px)
	}
}

// Engine paints tiles from a Source onto a surface. It is not safe for
// concurrent use; all calls are expected from the goroutine that owns the
// tile collection.
type Engine struct {
	src    Source
	layout Layout
	colors []*image.Uniform

	viewOffset   int
	page         int
	maxTiles     int
	maxDimension int

	paged         bool
	pageTileCount int
	pages         int
	slots         int
	rows          int

	selection      image.Rectangle
	moveX, moveY   int
	line           []image.Point
	lineValue      uint8
	surface        *image.RGBA
	dirty          dirtySet
	requestFrame   func(func())
	frameScheduled bool
}

// New returns an Engine painting src with palette p. The first frame is a
// full redraw.
func New(src Source, p color.Palette, l Layout, opts ...Option) *Engine {
	e := &Engine{
		src:          src,
		layout:       l.normalize(),
		maxTiles:     DefaultMaxTiles,
		maxDimension: DefaultMaxDimension,
	}
	for _, o := range opts {
		o(e)
	}
	e.setColors(p)
	e.update()
	e.resize()
	e.MarkFullRedraw()
	return e
}

func (e *Engine) setColors(p color.Palette) {
	e.colors = make([]*image.Uniform, len(p))
	for i, c := range p {
		e.colors[i] = image.NewUniform(c)
	}
}

func (e *Engine) color(v uint8) *image.Uniform {
	if int(v) < len(e.colors) {
		return e.colors[v]
	}
	return missingColor
}

// SetSource replaces the tiles being shown.
func (e *Engine) SetSource(src Source) {
	e.src = src
	e.update()
	e.MarkFullRedraw()
}

// SetPalette replaces the display colours, one per pixel value.
func (e *Engine) SetPalette(p color.Palette) {
	e.setColors(p)
	e.MarkFullRedraw()
}

// Layout returns the current layout.
func (e *Engine) Layout() Layout {
	return e.layout
}

// SetLayout changes the layout. The page index is clamped if the number
// of pages shrinks.
func (e *Engine) SetLayout(l Layout) {
	e.layout = l.normalize()
	e.update()
	e.MarkFullRedraw()
}

// Surface returns the image the engine paints into. It is replaced when a
// full redraw changes its size.
func (e *Engine) Surface() *image.RGBA {
	return e.surface
}

// Bounds returns the size the surface has after the next full redraw.
func (e *Engine) Bounds() image.Rectangle {
	ts := e.layout.tileSize()
	return image.Rect(0, 0, e.layout.TilesPerRow*ts, e.rows*ts)
}

func (e *Engine) resize() {
	if r := e.Bounds(); e.surface == nil || e.surface.Rect != r {
		e.surface = image.NewRGBA(r)
	}
}

func (e *Engine) schedule() {
	if e.frameScheduled || e.requestFrame == nil {
		return
	}
	e.frameScheduled = true
	e.requestFrame(func() {
		e.Frame()
	})
}

// MarkDirtyRect queues r, in surface pixels, for repainting. Empty
// rectangles are ignored.
func (e *Engine) MarkDirtyRect(r image.Rectangle) {
	if r.Empty() {
		return
	}
	e.dirty.add(r)
	e.schedule()
}

// MarkTileDirty queues the surface area of source index i for repainting,
// along with its ghost while the selection holding it is dragged. Indices
// not on the surface are ignored.
func (e *Engine) MarkTileDirty(i int) {
	if slot, ok := e.WindowIndex(i); ok {
		e.MarkDirtyRect(e.slotRect(slot))
	}

	if (e.moveX == 0 && e.moveY == 0) || i < 0 {
		return
	}
	col, row := tile.Position(i, e.layout.TilesPerRow)
	if !image.Pt(col, row).In(e.selection) {
		return
	}
	if r, ok := e.ghostRect(col, row); ok {
		e.MarkDirtyRect(r)
	}
}

// MarkFullRedraw forces the next frame to repaint the whole surface,
// discarding any pending rectangles.
func (e *Engine) MarkFullRedraw() {
	e.dirty.all()
	e.schedule()
}

// Pending reports whether anything is waiting to be painted.
func (e *Engine) Pending() bool {
	return e.dirty.pending()
}

// Frame paints everything marked since the previous frame and returns the
// repainted rectangle, which is empty if there was nothing to do.
func (e *Engine) Frame() image.Rectangle {
	e.frameScheduled = false

	var r image.Rectangle
	switch {
	case e.dirty.full:
		e.resize()
		r = e.surface.Rect
	case len(e.dirty.rects) > 0:
		r = e.dirty.bounds().Intersect(e.surface.Rect)
	}
	e.dirty.clear()

	if r.Empty() {
		return image.Rectangle{}
	}
	e.paint(e.surface.SubImage(r).(*image.RGBA))
	return r
}

// slotRect returns the surface rectangle of a window slot.
func (e *Engine) slotRect(slot int) image.Rectangle {
	tpr := e.layout.TilesPerRow
	x, y := tile.Position(slot, tpr)
	if e.layout.RowInterleaved {
		x, y = OrigToDisplay(x, y, tpr)
	}
	ts := e.layout.tileSize()
	return image.Rect(x*ts, y*ts, (x+1)*ts, (y+1)*ts)
}

// TileRect returns the surface rectangle showing source index i.
func (e *Engine) TileRect(i int) (image.Rectangle, bool) {
	slot, ok := e.WindowIndex(i)
	if !ok {
		return image.Rectangle{}, false
	}
	return e.slotRect(slot), true
}

// pixelRect returns the surface rectangle of an absolute pixel in the
// source's own grid.
func (e *Engine) pixelRect(p image.Point) (image.Rectangle, bool) {
	tpr := e.layout.TilesPerRow
	if p.X < 0 || p.Y < 0 || p.X >= tpr*tile.Width {
		return image.Rectangle{}, false
	}
	r, ok := e.TileRect(tile.Index(p.X/tile.Width, p.Y/tile.Height, tpr))
	if !ok {
		return image.Rectangle{}, false
	}
	ps := e.layout.PixelSize
	at := r.Min.Add(image.Pt(p.X%tile.Width*ps, p.Y%tile.Height*ps))
	return image.Rectangle{Min: at, Max: at.Add(image.Pt(ps, ps))}, true
}

// HitTest returns the tile and pixel under the surface point pt. It
// reports false outside the surface and over slots with no tile.
func (e *Engine) HitTest(pt image.Point) (Hit, bool) {
	if !pt.In(e.Bounds()) {
		return Hit{}, false
	}

	l := e.layout
	ts := l.tileSize()
	x, y := pt.X/ts, pt.Y/ts
	if l.RowInterleaved {
		x, y = DisplayToOrig(x, y, l.TilesPerRow)
	}

	slot := tile.Index(x, y, l.TilesPerRow)
	if slot >= e.slots {
		return Hit{}, false
	}
	i := e.base() + slot
	if i < 0 || i >= e.src.Len() {
		return Hit{}, false
	}

	col, row := tile.Position(i, l.TilesPerRow)
	return Hit{
		Index: i,
		Col:   col,
		Row:   row,
		X:     pt.X % ts / l.PixelSize,
		Y:     pt.Y % ts / l.PixelSize,
	}, true
}

// selectionCell is one selected tile: the source index shown as its ghost,
// or -1, and the surface rectangle it occupies at the move destination.
type selectionCell struct {
	index int
	rect  image.Rectangle
}

// ghostRect returns the surface rectangle the tile at source grid position
// (col, row) occupies while the selection is dragged.
func (e *Engine) ghostRect(col, row int) (image.Rectangle, bool) {
	tpr := e.layout.TilesPerRow
	col, row = col+e.moveX, row+e.moveY
	if col < 0 || col >= tpr || row < 0 {
		return image.Rectangle{}, false
	}
	slot := tile.Index(col, row, tpr) - e.base()
	if slot < 0 || slot >= e.rows*tpr {
		return image.Rectangle{}, false
	}
	return e.slotRect(slot), true
}

// selectionCells returns every selected tile that lands on the surface.
func (e *Engine) selectionCells() []selectionCell {
	sel := e.selection
	if sel.Empty() {
		return nil
	}

	tpr, n := e.layout.TilesPerRow, e.src.Len()
	cells := make([]selectionCell, 0, sel.Dx()*sel.Dy())
	for row := sel.Min.Y; row < sel.Max.Y; row++ {
		for col := sel.Min.X; col < sel.Max.X; col++ {
			r, ok := e.ghostRect(col, row)
			if !ok {
				continue
			}
			i := -1
			if col >= 0 && col < tpr && row >= 0 {
				if j := tile.Index(col, row, tpr); j < n {
					i = j
				}
			}
			cells = append(cells, selectionCell{index: i, rect: r})
		}
	}
	return cells
}

// selectionContiguous reports whether the selected tiles form a single
// rectangle on the surface.
func (e *Engine) selectionContiguous() bool {
	tpr := e.layout.TilesPerRow
	return !e.layout.RowInterleaved && e.base()-floorDiv(e.base(), tpr)*tpr == 0
}

// selectionRect returns the surface rectangle covered by the selection
// overlay, including any move in progress.
func (e *Engine) selectionRect() image.Rectangle {
	var r image.Rectangle
	for _, c := range e.selectionCells() {
		r = r.Union(c.rect)
	}
	return r
}

// SetSelection sets the selected rectangle, in tile units of the source's
// grid, and the offset in tiles by which it is being dragged. An empty
// rectangle clears the selection.
func (e *Engine) SetSelection(r image.Rectangle, dx, dy int) {
	e.MarkDirtyRect(e.selectionRect())
	e.selection = r.Canon()
	e.moveX, e.moveY = dx, dy
	e.MarkDirtyRect(e.selectionRect())
}

func (e *Engine) lineRect() image.Rectangle {
	var r image.Rectangle
	for _, p := range e.line {
		if pr, ok := e.pixelRect(p); ok {
			r = r.Union(pr)
		}
	}
	return r
}

// SetLinePreview shows the line from one absolute pixel of the source's
// grid to another painted with value, without touching any tile.
func (e *Engine) SetLinePreview(from, to image.Point, value uint8) {
	e.MarkDirtyRect(e.lineRect())
	e.line = edit.Points(from, to)
	e.lineValue = value
	e.MarkDirtyRect(e.lineRect())
}

// ClearLinePreview removes the line preview.
func (e *Engine) ClearLinePreview() {
	e.MarkDirtyRect(e.lineRect())
	e.line = nil
}
