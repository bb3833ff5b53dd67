/*
Package render composites a window of tiles onto an RGBA surface.

The Engine owns the surface and repaints it in frames. A frame either
repaints the whole surface or only the bounding box of every rectangle
marked dirty since the previous frame. Tiles can be placed linearly or in
the row-interleaved layout used by 8 by 16 sprite formats, and collections
too large for a single surface are split into pages.
*/
package render

import (
	"image"

	"github.com/bodgit/tilebravo/tile"
)

// Source is an indexed collection of tiles. At is only called with indices
// in the range [0, Len()).
type Source interface {
	Len() int
	At(i int) *tile.Tile
}

// Slice adapts a plain slice of tiles to Source.
type Slice []tile.Tile

// Len returns the number of tiles.
func (s Slice) Len() int {
	return len(s)
}

// At returns the tile at index i.
func (s Slice) At(i int) *tile.Tile {
	return &s[i]
}

// Layout controls how tiles are placed and decorated on the surface.
type Layout struct {
	TilesPerRow    int
	PixelSize      int
	RowInterleaved bool
	TileGrid       bool
	PixelGrid      bool
}

func (l Layout) normalize() Layout {
	l.TilesPerRow = max(1, l.TilesPerRow)
	l.PixelSize = max(1, l.PixelSize)
	return l
}

func (l Layout) tileSize() int {
	return tile.Width * l.PixelSize
}

// Hit describes the tile and pixel under a point of the surface.
type Hit struct {
	// Index of the tile in the source
	Index int
	// Col and Row locate the tile in the source's own grid
	Col, Row int
	// X and Y locate the pixel within the tile
	X, Y int
}

// Point returns the absolute pixel position of the hit in the source's grid.
func (h Hit) Point() image.Point {
	return image.Pt(h.Col*tile.Width+h.X, h.Row*tile.Height+h.Y)
}
