package codec

import "github.com/bodgit/tilebravo/tile"

// linear packs pixels contiguously, several to a byte when bpp < 8. With
// msbFirst the leftmost pixel occupies the most significant bits, otherwise
// the least significant.
type linear struct {
	bpp      int
	msbFirst bool
}

func (l linear) perByte() int {
	return 8 / l.bpp
}

func (l linear) mask() uint8 {
	return uint8(1<<l.bpp - 1)
}

func (l linear) shift(i int) int {
	n := l.perByte()
	if l.msbFirst {
		return (n - 1 - i%n) * l.bpp
	}
	return i % n * l.bpp
}

func (l linear) decode(t *tile.Tile, b []byte) {
	n := l.perByte()
	for i := range t {
		t[i] = b[i/n] >> l.shift(i) & l.mask()
	}
}

func (l linear) encode(b []byte, t *tile.Tile) {
	n := l.perByte()
	for i, v := range t {
		b[i/n] |= v & l.mask() << l.shift(i)
	}
}

func (l linear) pixelByteOffset(x, y int) int {
	return (y*tile.Width + x) * l.bpp / 8
}
