package render

// OrigToDisplay maps the grid position of a tile to where the row-interleaved
// layout shows it. Odd columns of even rows trade places with the even
// column of the row below, so that each pair of tiles stacks vertically. A
// tile whose partner would fall past the end of the row stays where it is.
func OrigToDisplay(x, y, tilesPerRow int) (int, int) {
	switch {
	case x&1 == 1 && y&1 == 0:
		return x - 1, y + 1
	case x&1 == 0 && y&1 == 1 && x+1 < tilesPerRow:
		return x + 1, y - 1
	}
	return x, y
}

// DisplayToOrig is the inverse of OrigToDisplay. The mapping only swaps
// pairs, so it is its own inverse.
func DisplayToOrig(x, y, tilesPerRow int) (int, int) {
	return OrigToDisplay(x, y, tilesPerRow)
}

// SurfaceRows returns the number of tile rows needed to show count tiles.
// In the row-interleaved layout a last row holding at least two tiles at an
// even row index pushes its odd tiles into one more row.
func SurfaceRows(count, tilesPerRow int, interleaved bool) int {
	tilesPerRow = max(1, tilesPerRow)
	count = max(1, count)

	rows := (count + tilesPerRow - 1) / tilesPerRow
	if interleaved {
		last := count - (rows-1)*tilesPerRow
		if last >= 2 && (rows-1)&1 == 0 {
			rows++
		}
	}
	return rows
}
