package tile

import "image"

// Index returns the position in a collection of the tile at grid column col
// and row row.
func Index(col, row, tilesPerRow int) int {
	return row*tilesPerRow + col
}

// Position returns the grid column and row of the tile at index i.
func Position(i, tilesPerRow int) (int, int) {
	return i % tilesPerRow, i / tilesPerRow
}

// Rows returns the number of grid rows needed to hold count tiles, which is
// never less than one.
func Rows(count, tilesPerRow int) int {
	if tilesPerRow < 1 {
		tilesPerRow = 1
	}
	return max(1, (count+tilesPerRow-1)/tilesPerRow)
}

// AllBlank reports whether every tile in tiles is blank.
func AllBlank(tiles []Tile) bool {
	for i := range tiles {
		if !tiles[i].IsBlank() {
			return false
		}
	}
	return true
}

// WouldDiscard reports whether resizing tiles to n entries drops any tile
// that is not blank.
func WouldDiscard(tiles []Tile, n int) bool {
	n = max(1, n)
	if n >= len(tiles) {
		return false
	}
	return !AllBlank(tiles[n:])
}

// Resize returns tiles grown with blank tiles, or truncated, so that it holds
// exactly n entries. n is never allowed below one.
func Resize(tiles []Tile, n int) []Tile {
	n = max(1, n)
	if n <= len(tiles) {
		return tiles[:n:n]
	}
	out := make([]Tile, n)
	copy(out, tiles)
	return out
}

// Pick returns copies of the tiles inside the selection r, given in tile
// units, in row-major order. Positions outside the collection are skipped.
func Pick(tiles []Tile, tilesPerRow int, r image.Rectangle) []Tile {
	var out []Tile
	for row := r.Min.Y; row < r.Max.Y; row++ {
		for col := r.Min.X; col < r.Max.X; col++ {
			if col < 0 || col >= tilesPerRow || row < 0 {
				continue
			}
			if i := Index(col, row, tilesPerRow); i < len(tiles) {
				out = append(out, tiles[i])
			}
		}
	}
	return out
}
