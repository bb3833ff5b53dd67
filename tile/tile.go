/*
Package tile implements the 8 by 8 pixel tile that every codec decodes to and
encodes from, along with helpers for treating an ordered sequence of tiles as
a grid.

A tile holds one small unsigned integer per pixel, stored row-major. The value
is a palette index for indexed codecs or a raw value for direct codecs; the
valid range depends on the codec that produced it.
*/
package tile

const (
	// Width is the number of pixel columns in a tile
	Width = 8
	// Height is the number of pixel rows in a tile
	Height = Width
	// Pixels is the number of pixels in a tile
	Pixels = Width * Height
)

// Tile is a single 8 by 8 block of pixel values. Being an array, assigning a
// Tile copies it so two collections never share pixel storage.
type Tile [Pixels]uint8

// At returns the value of the pixel at (x, y).
func (t *Tile) At(x, y int) uint8 {
	return t[y*Width+x]
}

// Set sets the value of the pixel at (x, y).
func (t *Tile) Set(x, y int, v uint8) {
	t[y*Width+x] = v
}

// IsBlank reports whether every pixel is zero.
func (t *Tile) IsBlank() bool {
	for _, v := range t {
		if v != 0 {
			return false
		}
	}
	return true
}
