package stream

// TileOffset returns the offset of the first byte of the tile at index i.
// A negative base offset is treated as zero, as when decoding.
func TileOffset(i int, p Params) int {
	return p.base() + i*p.Step()
}

// Offsets returns the offset of the tile at grid position (tileCol, tileRow)
// and of the byte holding pixel (pixelCol, pixelRow) within it. Negative
// tile coordinates yield Invalid for both.
func Offsets(tileCol, tileRow, pixelCol, pixelRow, tilesPerRow int, p Params) (int, int) {
	if tileCol < 0 || tileRow < 0 {
		return Invalid, Invalid
	}
	tileOffset := TileOffset(tileRow*tilesPerRow+tileCol, p)
	return tileOffset, tileOffset + p.Codec.PixelByteOffset(pixelCol, pixelRow)
}
