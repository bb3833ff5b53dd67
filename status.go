package tilebravo

import (
	"fmt"

	"github.com/bodgit/tilebravo/stream"
)

// Status describes the pixel under the pointer.
type Status struct {
	// Index of the tile, or stream.Invalid
	Index int
	// TileOffset is the offset of the tile's first byte and PixelOffset
	// the offset of the byte holding the pixel
	TileOffset, PixelOffset int
	// Value of the pixel
	Value int
}

var noStatus = Status{
	Index:       stream.Invalid,
	TileOffset:  stream.Invalid,
	PixelOffset: stream.Invalid,
	Value:       stream.Invalid,
}

// Valid reports whether the status refers to a tile.
func (s Status) Valid() bool {
	return s.TileOffset != stream.Invalid
}

func hexOffset(n int) string {
	if n < 0 {
		return "—"
	}
	return fmt.Sprintf("0x%06X", n)
}

// TileHex returns the tile offset in hexadecimal.
func (s Status) TileHex() string {
	return hexOffset(s.TileOffset)
}

// PixelHex returns the pixel byte offset in hexadecimal.
func (s Status) PixelHex() string {
	return hexOffset(s.PixelOffset)
}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("tile %s pixel %s", s.TileHex(), s.PixelHex())
	}
	return fmt.Sprintf("tile #%d %s pixel %s value %d", s.Index, s.TileHex(), s.PixelHex(), s.Value)
}
