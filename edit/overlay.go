package edit

import (
	"image"
	"sort"

	"github.com/bodgit/tilebravo/tile"
)

// Overlay holds uncommitted edits on top of a Grid as a sparse map from
// tile index to a shadow copy of that tile. Reads go through the shadow
// when there is one.
type Overlay struct {
	grid   *Grid
	colors int
	shadow map[int]*tile.Tile
}

// NewOverlay returns an empty overlay over g. Painted values are clamped to
// colors-1 when colors is positive.
func NewOverlay(g *Grid, colors int) *Overlay {
	return &Overlay{
		grid:   g,
		colors: colors,
		shadow: make(map[int]*tile.Tile),
	}
}

// Grid returns the grid under the overlay.
func (o *Overlay) Grid() *Grid {
	return o.grid
}

// SetColors changes the number of colours painted values are clamped to.
func (o *Overlay) SetColors(colors int) {
	o.colors = colors
}

// Len returns the number of tiles in the grid.
func (o *Overlay) Len() int {
	return o.grid.Len()
}

// At returns the tile at index i with any uncommitted edits applied.
func (o *Overlay) At(i int) *tile.Tile {
	if t, ok := o.shadow[i]; ok {
		return t
	}
	return o.grid.At(i)
}

// Pixel returns the value of the absolute pixel p with any uncommitted
// edits applied.
func (o *Overlay) Pixel(p image.Point) (uint8, bool) {
	i, x, y, ok := o.grid.locate(p)
	if !ok {
		return 0, false
	}
	return o.At(i).At(x, y), true
}

func (o *Overlay) clamp(v uint8) uint8 {
	if o.colors > 0 && int(v) >= o.colors {
		return uint8(o.colors - 1)
	}
	return v
}

// SetPixel sets the absolute pixel p to v in the shadow of its tile and
// returns the tile index. It reports false for pixels with no tile.
func (o *Overlay) SetPixel(p image.Point, v uint8) (int, bool) {
	i, x, y, ok := o.grid.locate(p)
	if !ok {
		return 0, false
	}
	t, ok := o.shadow[i]
	if !ok {
		dup := o.grid.Tiles[i]
		t = &dup
		o.shadow[i] = t
	}
	t.Set(x, y, o.clamp(v))
	return i, true
}

// Dirty reports whether there are uncommitted edits.
func (o *Overlay) Dirty() bool {
	return len(o.shadow) > 0
}

// Touched returns the indices of the tiles with uncommitted edits in
// ascending order.
func (o *Overlay) Touched() []int {
	touched := make([]int, 0, len(o.shadow))
	for i := range o.shadow {
		touched = append(touched, i)
	}
	sort.Ints(touched)
	return touched
}

// Commit merges every shadow tile into the grid and returns their indices.
// Shadows for tiles that no longer exist are dropped.
func (o *Overlay) Commit() []int {
	touched := o.Touched()
	for _, i := range touched {
		if i < len(o.grid.Tiles) {
			o.grid.Tiles[i] = *o.shadow[i]
		}
	}
	o.shadow = make(map[int]*tile.Tile)
	return touched
}

// Discard drops every uncommitted edit and returns the affected indices.
func (o *Overlay) Discard() []int {
	touched := o.Touched()
	o.shadow = make(map[int]*tile.Tile)
	return touched
}
