package codec

import "github.com/bodgit/tilebravo/tile"

// planar stores one bit of every pixel per plane, one byte per row per
// plane. offset gives the position of a plane's byte for a row and is the
// only thing that differs between console families.
type planar struct {
	planes int
	offset func(plane, row int) int
}

func (p planar) decode(t *tile.Tile, b []byte) {
	for y := 0; y < tile.Height; y++ {
		for x := 0; x < tile.Width; x++ {
			shift := 7 - x
			var v uint8
			for plane := 0; plane < p.planes; plane++ {
				v |= (b[p.offset(plane, y)] >> shift & 1) << plane
			}
			t.Set(x, y, v)
		}
	}
}

func (p planar) encode(b []byte, t *tile.Tile) {
	for y := 0; y < tile.Height; y++ {
		for x := 0; x < tile.Width; x++ {
			shift := 7 - x
			v := t.At(x, y)
			for plane := 0; plane < p.planes; plane++ {
				b[p.offset(plane, y)] |= (v >> plane & 1) << shift
			}
		}
	}
}

func (p planar) pixelByteOffset(_, y int) int {
	return p.offset(0, y)
}

// Game Boy and SNES 2bpp: both planes of a row are adjacent
func interleavedRows(plane, row int) int {
	return row<<1 + plane
}

// SNES 4bpp: planes 0 and 1 interleaved in the first 16 bytes, planes 2 and
// 3 in the second
func interleavedPairs(plane, row int) int {
	return plane>>1*16 + row<<1 + plane&1
}

// NES and the like: each plane is 8 contiguous bytes
func sequentialPlanes(plane, row int) int {
	return plane*tile.Height + row
}
