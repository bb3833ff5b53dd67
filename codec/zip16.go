package codec

import "github.com/bodgit/tilebravo/tile"

const blockSize = 16

// zip16 interleaves the two halves of a 16 byte block, producing
// [0, 8, 1, 9, ..., 7, 15].
func zip16(dst, src []byte) {
	for k := 0; k < blockSize/2; k++ {
		dst[2*k] = src[k]
		dst[2*k+1] = src[blockSize/2+k]
	}
}

// unzip16 reverses zip16.
func unzip16(dst, src []byte) {
	for k := 0; k < blockSize/2; k++ {
		dst[k] = src[2*k]
		dst[blockSize/2+k] = src[2*k+1]
	}
}

// chunkyZip16 wraps a planar layout. The raw data is chunky pixels that the
// game shuffles with zip16 in 16 byte blocks to produce the planar data the
// video hardware expects, so decoding shuffles and then delegates.
type chunkyZip16 struct {
	planar layout
	bpp    int
	size   int
}

func (z chunkyZip16) decode(t *tile.Tile, b []byte) {
	tmp := make([]byte, z.size)
	for i := 0; i < z.size; i += blockSize {
		zip16(tmp[i:i+blockSize], b[i:i+blockSize])
	}
	z.planar.decode(t, tmp)
}

func (z chunkyZip16) encode(b []byte, t *tile.Tile) {
	tmp := make([]byte, z.size)
	z.planar.encode(tmp, t)
	for i := 0; i < z.size; i += blockSize {
		unzip16(b[i:i+blockSize], tmp[i:i+blockSize])
	}
}

// Offsets are reported in the chunky layout of the source file.
func (z chunkyZip16) pixelByteOffset(x, y int) int {
	return (y*tile.Width + x) * z.bpp / 8
}
