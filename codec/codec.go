/*
Package codec implements the bit-packing schemes used to store 8 by 8 pixel
tiles in console ROM images.

Every codec converts between exactly BytesPerTile raw bytes and a tile.Tile.
The supported layouts are bit-planar (with several plane arrangements),
linear or packed-pixel (MSB or LSB first), and "chunky zip16" which is planar
data with each 16 byte block shuffled by the game before upload to video
memory. Codecs are stateless and looked up by id through a registry that is
built once at start up.
*/
package codec

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/bodgit/tilebravo/tile"
)

var (
	// ErrUnknownCodec is returned when looking up an id that is not registered
	ErrUnknownCodec = errors.New("codec: unknown codec")
	// ErrBadLength is returned when a buffer passed to a codec is not
	// exactly BytesPerTile bytes long
	ErrBadLength = errors.New("codec: buffer length does not match tile size")
)

// PixelMode describes how decoded pixel values are interpreted.
type PixelMode int

const (
	// Indexed values are indices into a palette
	Indexed PixelMode = iota
	// Direct values are raw colour values
	Direct
)

func (m PixelMode) String() string {
	switch m {
	case Indexed:
		return "indexed"
	case Direct:
		return "direct"
	default:
		return fmt.Sprintf("PixelMode(%d)", int(m))
	}
}

// Descriptor holds the immutable properties of a codec.
type Descriptor struct {
	ID             string
	Name           string
	BitsPerPixel   int
	Mode           PixelMode
	BytesPerTile   int
	Colors         int
	DefaultPalette color.Palette
}

// layout is the bit arithmetic behind a codec. Implementations may assume
// they are handed correctly sized buffers.
type layout interface {
	decode(t *tile.Tile, b []byte)
	encode(b []byte, t *tile.Tile)
	pixelByteOffset(x, y int) int
}

// Codec is a registered tile codec.
type Codec struct {
	Descriptor
	layout layout
}

func (c *Codec) check(b []byte) error {
	if len(b) != c.BytesPerTile {
		return fmt.Errorf("%w: %s wants %d bytes, got %d", ErrBadLength, c.ID, c.BytesPerTile, len(b))
	}
	return nil
}

// DecodeInto decodes b into t.
func (c *Codec) DecodeInto(t *tile.Tile, b []byte) error {
	if err := c.check(b); err != nil {
		return err
	}
	c.layout.decode(t, b)
	return nil
}

// Decode decodes b and returns the resulting tile.
func (c *Codec) Decode(b []byte) (tile.Tile, error) {
	var t tile.Tile
	err := c.DecodeInto(&t, b)
	return t, err
}

// EncodeInto encodes t into b, overwriting every byte of b.
func (c *Codec) EncodeInto(b []byte, t *tile.Tile) error {
	if err := c.check(b); err != nil {
		return err
	}
	for i := range b {
		b[i] = 0
	}
	c.layout.encode(b, t)
	return nil
}

// Encode returns the encoded form of t. Pixel values wider than the codec
// bit width are masked.
func (c *Codec) Encode(t *tile.Tile) []byte {
	b := make([]byte, c.BytesPerTile)
	c.layout.encode(b, t)
	return b
}

// PixelByteOffset returns the offset, relative to the start of the tile, of
// the byte holding pixel (x, y). For planar layouts this is the first plane.
func (c *Codec) PixelByteOffset(x, y int) int {
	return c.layout.pixelByteOffset(x, y)
}

func (c *Codec) String() string {
	return c.ID
}
