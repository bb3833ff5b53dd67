package stream

import (
	"github.com/bodgit/tilebravo/codec"
	"github.com/bodgit/tilebravo/tile"
)

// Encode writes tiles back over a copy of src at the offsets Decode read
// them from. Bytes outside tile regions are preserved and a tile that runs
// past the end of src is clipped. If src is nil a buffer just large enough
// to hold every tile is allocated instead.
func Encode(src []byte, tiles []tile.Tile, p Params) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	base, step := p.base(), p.Step()

	var out []byte
	if src == nil {
		if len(tiles) == 0 {
			return []byte{}, nil
		}
		out = make([]byte, base+(len(tiles)-1)*step+p.Codec.BytesPerTile)
	} else {
		out = make([]byte, len(src))
		copy(out, src)
	}

	for i := range tiles {
		off := base + i*step
		if off >= len(out) {
			break
		}
		copy(out[off:], p.Codec.Encode(&tiles[i]))
	}

	return out, nil
}

// EncodeTiles packs tiles contiguously with no base offset or stride, as
// used when exporting a selection.
func EncodeTiles(tiles []tile.Tile, c *codec.Codec) []byte {
	out := make([]byte, len(tiles)*c.BytesPerTile)
	for i := range tiles {
		copy(out[i*c.BytesPerTile:], c.Encode(&tiles[i]))
	}
	return out
}

// Blank returns the encoding of count blank tiles.
func Blank(count int, c *codec.Codec) []byte {
	return EncodeTiles(make([]tile.Tile, count), c)
}
