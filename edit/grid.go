/*
Package edit implements the paint and selection operations of the editor.

Coordinates are absolute pixels of a Grid: the tile at index i occupies
columns (i % TilesPerRow) * 8 onwards and rows (i / TilesPerRow) * 8
onwards. Painting goes through an Overlay that keeps shadow copies of the
tiles touched by a stroke until it is committed, so a stroke in progress
never has to copy the whole collection.
*/
package edit

import (
	"image"

	"github.com/bodgit/tilebravo/tile"
)

// Grid is a tile collection arranged in rows of TilesPerRow tiles.
type Grid struct {
	Tiles       []tile.Tile
	TilesPerRow int
}

// NewGrid returns a grid over tiles.
func NewGrid(tiles []tile.Tile, tilesPerRow int) *Grid {
	return &Grid{
		Tiles:       tiles,
		TilesPerRow: max(1, tilesPerRow),
	}
}

// Len returns the number of tiles.
func (g *Grid) Len() int {
	return len(g.Tiles)
}

// At returns the tile at index i.
func (g *Grid) At(i int) *tile.Tile {
	return &g.Tiles[i]
}

func (g *Grid) tilesPerRow() int {
	return max(1, g.TilesPerRow)
}

// Rows returns the number of tile rows.
func (g *Grid) Rows() int {
	return tile.Rows(len(g.Tiles), g.tilesPerRow())
}

// Width returns the width of the grid in pixels.
func (g *Grid) Width() int {
	return g.tilesPerRow() * tile.Width
}

// Height returns the height of the grid in pixels.
func (g *Grid) Height() int {
	return g.Rows() * tile.Height
}

// locate returns the tile index and the position within it of the absolute
// pixel p, reporting false for pixels with no tile.
func (g *Grid) locate(p image.Point) (int, int, int, bool) {
	if p.X < 0 || p.Y < 0 || p.X >= g.Width() {
		return 0, 0, 0, false
	}
	i := tile.Index(p.X/tile.Width, p.Y/tile.Height, g.tilesPerRow())
	if i >= len(g.Tiles) {
		return 0, 0, 0, false
	}
	return i, p.X % tile.Width, p.Y % tile.Height, true
}

// Pixel returns the value of the absolute pixel p.
func (g *Grid) Pixel(p image.Point) (uint8, bool) {
	i, x, y, ok := g.locate(p)
	if !ok {
		return 0, false
	}
	return g.Tiles[i].At(x, y), true
}

// WouldDiscard reports whether Resize(n) would drop a tile that is not
// blank.
func (g *Grid) WouldDiscard(n int) bool {
	return tile.WouldDiscard(g.Tiles, n)
}

// Resize grows the grid with blank tiles or truncates it to n tiles. Asking
// whether that is acceptable is up to the caller.
func (g *Grid) Resize(n int) {
	g.Tiles = tile.Resize(g.Tiles, n)
}

// Clip is a rectangular block of copied tiles.
type Clip struct {
	Tiles         []tile.Tile
	Width, Height int
}

// Copy returns a copy of the tiles inside sel, in tile units. Positions
// with no tile are copied as blank tiles so the clip keeps its shape.
func (g *Grid) Copy(sel image.Rectangle) Clip {
	sel = sel.Canon()
	c := Clip{
		Tiles:  make([]tile.Tile, 0, sel.Dx()*sel.Dy()),
		Width:  sel.Dx(),
		Height: sel.Dy(),
	}
	tpr := g.tilesPerRow()
	for row := sel.Min.Y; row < sel.Max.Y; row++ {
		for col := sel.Min.X; col < sel.Max.X; col++ {
			var t tile.Tile
			if i := tile.Index(col, row, tpr); col >= 0 && col < tpr && row >= 0 && i < len(g.Tiles) {
				t = g.Tiles[i]
			}
			c.Tiles = append(c.Tiles, t)
		}
	}
	return c
}

// Paste writes c with its top left tile at position at, skipping anything
// that falls outside the grid. It returns the indices of the tiles written.
func (g *Grid) Paste(at image.Point, c Clip) []int {
	var changed []int
	tpr := g.tilesPerRow()
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			col, row := at.X+x, at.Y+y
			if col < 0 || col >= tpr || row < 0 {
				continue
			}
			if i := tile.Index(col, row, tpr); i < len(g.Tiles) {
				g.Tiles[i] = c.Tiles[y*c.Width+x]
				changed = append(changed, i)
			}
		}
	}
	return changed
}

// Move moves the tiles inside sel by (dx, dy) tiles. The source area is
// blanked and the destination is clamped so it stays inside the grid. It
// returns the selection at its new position.
func (g *Grid) Move(sel image.Rectangle, dx, dy int) image.Rectangle {
	sel = sel.Canon()
	if sel.Empty() || (dx == 0 && dy == 0) {
		return sel
	}

	c := g.Copy(sel)
	tpr := g.tilesPerRow()
	for row := sel.Min.Y; row < sel.Max.Y; row++ {
		for col := sel.Min.X; col < sel.Max.X; col++ {
			if i := tile.Index(col, row, tpr); col >= 0 && col < tpr && row >= 0 && i < len(g.Tiles) {
				g.Tiles[i] = tile.Tile{}
			}
		}
	}

	at := image.Pt(
		clamp(sel.Min.X+dx, 0, tpr-c.Width),
		clamp(sel.Min.Y+dy, 0, g.Rows()-c.Height),
	)
	g.Paste(at, c)

	return sel.Add(at.Sub(sel.Min))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
