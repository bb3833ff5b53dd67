/*
Package stream walks a raw byte buffer as a sequence of tiles.

Tiles start at a base offset and repeat every Step bytes, where the step is
the larger of the codec's natural tile size and a user supplied stride. A
stride wider than the tile models padding or unrelated data between tiles;
a narrower one is silently raised to the tile size.
*/
package stream

import (
	"errors"

	"github.com/bodgit/tilebravo/codec"
)

// Invalid is returned for offsets of positions outside the tile grid.
const Invalid = -1

// ErrNoCodec is returned when Params has no codec.
var ErrNoCodec = errors.New("stream: no codec")

// Params are the addressing parameters that locate tiles in a buffer.
type Params struct {
	BaseOffset int
	Stride     int
	Codec      *codec.Codec
}

// NewParams resolves id through the codec registry.
func NewParams(baseOffset, stride int, id string) (Params, error) {
	c, err := codec.Lookup(id)
	if err != nil {
		return Params{}, err
	}
	return Params{
		BaseOffset: baseOffset,
		Stride:     stride,
		Codec:      c,
	}, nil
}

// Step returns the distance in bytes between the start of consecutive tiles.
func (p Params) Step() int {
	return max(p.Codec.BytesPerTile, p.Stride)
}

func (p Params) base() int {
	return max(0, p.BaseOffset)
}

func (p Params) validate() error {
	if p.Codec == nil {
		return ErrNoCodec
	}
	return nil
}
