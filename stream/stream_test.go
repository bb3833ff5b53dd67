package stream

import (
	"math/rand"
	"testing"

	"github.com/bodgit/tilebravo/codec"
	"github.com/bodgit/tilebravo/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(t *testing.T, base, stride int, id string) Params {
	t.Helper()
	p, err := NewParams(base, stride, id)
	require.NoError(t, err)
	return p
}

func TestNewParamsUnknownCodec(t *testing.T) {
	_, err := NewParams(0, 0, "nope")
	assert.ErrorIs(t, err, codec.ErrUnknownCodec)
}

func TestStrideClamp(t *testing.T) {
	p := params(t, 0x10, 20, "4bpp_planar")
	assert.Equal(t, 32, p.Step())
	assert.Equal(t, 0x70, TileOffset(3, p))

	p.Stride = 48
	assert.Equal(t, 48, p.Step())
}

func TestOffsets(t *testing.T) {
	p := params(t, 0x10, 20, "4bpp_planar")

	tileOffset, pixelOffset := Offsets(3, 0, 0, 0, 16, p)
	assert.Equal(t, 0x70, tileOffset)
	assert.Equal(t, 0x70, pixelOffset)

	tileOffset, pixelOffset = Offsets(1, 2, 5, 7, 4, p)
	assert.Equal(t, 0x10+9*32, tileOffset)
	assert.Equal(t, 0x10+9*32+14, pixelOffset)

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {-3, -3}} {
		tileOffset, pixelOffset = Offsets(pos[0], pos[1], 0, 0, 16, p)
		assert.Equal(t, Invalid, tileOffset)
		assert.Equal(t, Invalid, pixelOffset)
	}
}

func TestNegativeBaseOffset(t *testing.T) {
	src := make([]byte, 96)
	rand.New(rand.NewSource(7)).Read(src)

	p := params(t, -16, 0, "4bpp_planar")
	tiles, err := Decode(src, p)
	require.NoError(t, err)

	want, err := Decode(src, params(t, 0, 0, "4bpp_planar"))
	require.NoError(t, err)
	assert.Equal(t, want, tiles)

	assert.Equal(t, 0, TileOffset(0, p))
	assert.Equal(t, 64, TileOffset(2, p))

	tileOffset, pixelOffset := Offsets(1, 0, 0, 1, 16, p)
	assert.Equal(t, 32, tileOffset)
	assert.Equal(t, 32+p.Codec.PixelByteOffset(0, 1), pixelOffset)
}

func TestOffsetMonotonic(t *testing.T) {
	for _, c := range codec.All() {
		for _, stride := range []int{0, 1, c.BytesPerTile, c.BytesPerTile + 7} {
			p := Params{BaseOffset: 5, Stride: stride, Codec: c}
			for i := 0; i < 100; i++ {
				assert.Equal(t, p.Step(), TileOffset(i+1, p)-TileOffset(i, p))
				assert.GreaterOrEqual(t, p.Step(), c.BytesPerTile)
			}
		}
	}
}

func TestDecodeNeverEmpty(t *testing.T) {
	p := params(t, 0, 0, "4bpp_planar")

	for _, b := range [][]byte{nil, {}, {0xff}, make([]byte, 31)} {
		tiles, err := Decode(b, p)
		require.NoError(t, err)
		assert.Len(t, tiles, 1)
	}

	p.BaseOffset = 1000
	tiles, err := Decode(make([]byte, 64), p)
	require.NoError(t, err)
	require.Len(t, tiles, 1)
	assert.True(t, tiles[0].IsBlank())
}

func TestDecodePadsRemainder(t *testing.T) {
	p := params(t, 0, 0, "2bpp_planar")

	b := make([]byte, 16+3)
	b[16] = 0xff // row 0, plane 0 of the partial tile
	b[17] = 0xff // row 0, plane 1

	tiles, err := Decode(b, p)
	require.NoError(t, err)
	require.Len(t, tiles, 2)
	assert.True(t, tiles[0].IsBlank())
	for x := 0; x < tile.Width; x++ {
		assert.Equal(t, uint8(3), tiles[1].At(x, 0))
		assert.Equal(t, uint8(0), tiles[1].At(x, 1))
	}
	assert.True(t, Truncated(len(b), p))
	assert.False(t, Truncated(32, p))
}

func TestDecodeStride(t *testing.T) {
	p := params(t, 4, 24, "2bpp_planar")

	b := make([]byte, 4+24*3)
	for i := 0; i < 3; i++ {
		b[4+i*24] = 0x80 // pixel (0, 0) = 1
		for j := 16; j < 24; j++ {
			b[4+i*24+j] = 0xee // padding, never decoded
		}
	}

	tiles, err := Decode(b, p)
	require.NoError(t, err)
	require.Len(t, tiles, 3)
	for _, tl := range tiles {
		assert.Equal(t, uint8(1), tl.At(0, 0))
		assert.Equal(t, uint8(0), tl.At(1, 0))
	}
	assert.Equal(t, 3, Count(len(b), p))
}

func TestDecodeRemainderAfterPadding(t *testing.T) {
	p := params(t, 0, 24, "2bpp_planar")

	// A full tile, 8 bytes of padding, then 4 bytes of a second tile
	tiles, err := Decode(make([]byte, 28), p)
	require.NoError(t, err)
	assert.Len(t, tiles, 2)

	// Padding that runs exactly to the end leaves no remainder
	tiles, err = Decode(make([]byte, 24), p)
	require.NoError(t, err)
	assert.Len(t, tiles, 1)
}

func TestDecodeNoCodec(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3}, Params{})
	assert.ErrorIs(t, err, ErrNoCodec)
}

func TestExportPreservesUntouchedBytes(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for _, c := range codec.All() {
		for _, p := range []Params{
			{BaseOffset: 0, Codec: c},
			{BaseOffset: 13, Stride: c.BytesPerTile + 5, Codec: c},
		} {
			src := make([]byte, 13+c.BytesPerTile*5+7)
			r.Read(src)

			tiles, err := Decode(src, p)
			require.NoError(t, err)

			out, err := Encode(src, tiles, p)
			require.NoError(t, err)
			assert.Equal(t, src, out, c.ID)
		}
	}
}

func TestExportWritesOnlyTileRegions(t *testing.T) {
	p := params(t, 2, 20, "2bpp_planar")

	src := make([]byte, 2+20*2)
	for i := range src {
		src[i] = 0x55
	}

	tiles, err := Decode(src, p)
	require.NoError(t, err)
	require.Len(t, tiles, 2)

	tiles[1] = tile.Tile{}
	out, err := Encode(src, tiles, p)
	require.NoError(t, err)

	assert.Equal(t, src[:22], out[:22])
	assert.Equal(t, make([]byte, 16), out[22:38])
	assert.Equal(t, src[38:], out[38:])
}

func TestExportClipsOverflow(t *testing.T) {
	p := params(t, 0, 0, "2bpp_planar")

	src := make([]byte, 20)
	tiles := make([]tile.Tile, 3)
	for i := range tiles[1] {
		tiles[1][i] = 3
	}

	out, err := Encode(src, tiles, p)
	require.NoError(t, err)
	require.Len(t, out, 20)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, out[16:])
}

func TestExportWithoutSource(t *testing.T) {
	p := params(t, 4, 20, "2bpp_planar")

	out, err := Encode(nil, make([]tile.Tile, 3), p)
	require.NoError(t, err)
	assert.Len(t, out, 4+2*20+16)
}

func TestEncodeTiles(t *testing.T) {
	c, err := codec.Lookup("4bpp_linear")
	require.NoError(t, err)

	tiles := make([]tile.Tile, 3)
	tiles[2][0] = 0xf
	out := EncodeTiles(tiles, c)
	require.Len(t, out, 3*32)
	assert.Equal(t, byte(0xf0), out[64])

	assert.Equal(t, make([]byte, 10*32), Blank(10, c))
}
