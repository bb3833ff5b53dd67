package stream

import "github.com/bodgit/tilebravo/tile"

// Count returns the number of tiles Decode produces for a buffer of length n.
func Count(n int, p Params) int {
	base, size, step := p.base(), p.Codec.BytesPerTile, p.Step()
	if base >= n {
		return 1
	}
	count := 0
	if base+size <= n {
		count = (n-base-size)/step + 1
	}
	if base+count*step < n {
		count++
	}
	return max(1, count)
}

// Truncated reports whether the last tile of a buffer of length n had to be
// padded with zero bytes.
func Truncated(n int, p Params) bool {
	base, size, step := p.base(), p.Codec.BytesPerTile, p.Step()
	if base >= n {
		return false
	}
	end := base + (Count(n, p)-1)*step
	return end+size > n
}

// Decode decodes every tile in b. A trailing partial tile is decoded as if
// padded with zero bytes, and an empty buffer, or a base offset past its
// end, yields a single blank tile so the result is never empty.
func Decode(b []byte, p Params) ([]tile.Tile, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	c, step := p.Codec, p.Step()
	tiles := make([]tile.Tile, Count(len(b), p))

	pos := p.base()
	i := 0
	for ; pos+c.BytesPerTile <= len(b); pos += step {
		if err := c.DecodeInto(&tiles[i], b[pos:pos+c.BytesPerTile]); err != nil {
			return nil, err
		}
		i++
	}

	if pos < len(b) {
		tmp := make([]byte, c.BytesPerTile)
		copy(tmp, b[pos:])
		if err := c.DecodeInto(&tiles[i], tmp); err != nil {
			return nil, err
		}
	}

	return tiles, nil
}
