package codec

import (
	"math/rand"
	"testing"

	"github.com/bodgit/tilebravo/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomTile(r *rand.Rand, colors int) tile.Tile {
	var t tile.Tile
	for i := range t {
		t[i] = uint8(r.Intn(colors))
	}
	return t
}

func TestRegistry(t *testing.T) {
	ids := IDs()
	assert.Len(t, ids, 11)
	assert.Equal(t, "1bpp_linear", ids[0])

	for _, c := range All() {
		assert.Equal(t, 64*c.BitsPerPixel/8, c.BytesPerTile, c.ID)
		assert.Equal(t, 1<<c.BitsPerPixel, c.Colors, c.ID)
		assert.Equal(t, Indexed, c.Mode, c.ID)

		found, err := Lookup(c.ID)
		require.NoError(t, err)
		assert.Same(t, c, found)
	}

	_, err := Lookup("16bpp_imaginary")
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestRoundTripTiles(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, c := range All() {
		for n := 0; n < 50; n++ {
			want := randomTile(r, c.Colors)
			got, err := c.Decode(c.Encode(&want))
			require.NoError(t, err)
			assert.Equal(t, want, got, c.ID)
		}
	}
}

func TestRoundTripBytes(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	patterns := func(size int) [][]byte {
		zero := make([]byte, size)
		ones := make([]byte, size)
		seq := make([]byte, size)
		noise := make([]byte, size)
		for i := range ones {
			ones[i] = 0xff
			seq[i] = byte(i)
		}
		r.Read(noise)
		return [][]byte{zero, ones, seq, noise}
	}

	for _, c := range All() {
		for _, b := range patterns(c.BytesPerTile) {
			tl, err := c.Decode(b)
			require.NoError(t, err)
			assert.Equal(t, b, c.Encode(&tl), c.ID)
		}
	}
}

func TestDecodedValuesInRange(t *testing.T) {
	b := make([]byte, 64)
	for i := range b {
		b[i] = 0xff
	}
	for _, c := range All() {
		tl, err := c.Decode(b[:c.BytesPerTile])
		require.NoError(t, err)
		for _, v := range tl {
			assert.Less(t, int(v), c.Colors, c.ID)
		}
	}
}

func TestBadLength(t *testing.T) {
	c, err := Lookup("4bpp_planar")
	require.NoError(t, err)

	_, err = c.Decode(make([]byte, 31))
	assert.ErrorIs(t, err, ErrBadLength)

	var tl tile.Tile
	assert.ErrorIs(t, c.EncodeInto(make([]byte, 33), &tl), ErrBadLength)
}

func TestEncodeIntoOverwrites(t *testing.T) {
	c, err := Lookup("2bpp_planar")
	require.NoError(t, err)

	b := make([]byte, 16)
	for i := range b {
		b[i] = 0xaa
	}
	var blank tile.Tile
	require.NoError(t, c.EncodeInto(b, &blank))
	assert.Equal(t, make([]byte, 16), b)
}

func TestEncodeMasksValues(t *testing.T) {
	c, err := Lookup("2bpp_linear")
	require.NoError(t, err)

	var tl tile.Tile
	tl[0] = 0xff
	b := c.Encode(&tl)
	assert.Equal(t, byte(0xc0), b[0])
}

func Test2bppPlanarRow(t *testing.T) {
	c, err := Lookup("2bpp_planar")
	require.NoError(t, err)

	b := make([]byte, 16)
	b[0] = 0xff
	tl, err := c.Decode(b)
	require.NoError(t, err)

	for x := 0; x < tile.Width; x++ {
		assert.Equal(t, uint8(1), tl.At(x, 0))
		for y := 1; y < tile.Height; y++ {
			assert.Equal(t, uint8(0), tl.At(x, y))
		}
	}
}

func TestPlanarLayouts(t *testing.T) {
	tests := map[string]struct {
		offset int
		value  uint8
	}{
		"2bpp_planar":           {1, 2},  // row 0, plane 1
		"2bpp_planar_composite": {8, 2},  // plane 1 starts at byte 8
		"4bpp_planar":           {16, 4}, // plane 2 starts at byte 16
		"8bpp_planar":           {56, 128},
	}
	for id, tc := range tests {
		c, err := Lookup(id)
		require.NoError(t, err)

		b := make([]byte, c.BytesPerTile)
		b[tc.offset] = 0x80
		tl, err := c.Decode(b)
		require.NoError(t, err)
		assert.Equal(t, tc.value, tl.At(0, 0), id)
	}
}

func TestLinearNibbleOrder(t *testing.T) {
	b := make([]byte, 32)
	b[0] = 0x12

	c, err := Lookup("4bpp_linear")
	require.NoError(t, err)
	tl, err := c.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2}, tl[:2])

	c, err = Lookup("4bpp_linear_reverse")
	require.NoError(t, err)
	tl, err = c.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, []uint8{2, 1}, tl[:2])
}

func TestZip16(t *testing.T) {
	src := make([]byte, 16)
	for i := range src {
		src[i] = byte(i)
	}
	dst := make([]byte, 16)
	zip16(dst, src)
	assert.Equal(t, []byte{0, 8, 1, 9, 2, 10, 3, 11, 4, 12, 5, 13, 6, 14, 7, 15}, dst)

	back := make([]byte, 16)
	unzip16(back, dst)
	assert.Equal(t, src, back)
}

func TestChunkyMatchesShuffledPlanar(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	pairs := map[string]string{
		"2bpp_chunky_zip16": "2bpp_planar",
		"4bpp_chunky_zip16": "4bpp_planar",
	}
	for chunkyID, planarID := range pairs {
		chunky, err := Lookup(chunkyID)
		require.NoError(t, err)
		planar, err := Lookup(planarID)
		require.NoError(t, err)

		raw := make([]byte, chunky.BytesPerTile)
		r.Read(raw)
		shuffled := make([]byte, len(raw))
		for i := 0; i < len(raw); i += 16 {
			zip16(shuffled[i:i+16], raw[i:i+16])
		}

		want, err := planar.Decode(shuffled)
		require.NoError(t, err)
		got, err := chunky.Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, chunkyID)
	}
}

func TestPixelByteOffset(t *testing.T) {
	tests := []struct {
		id     string
		x, y   int
		offset int
	}{
		{"1bpp_linear", 5, 3, 3},
		{"2bpp_planar", 7, 3, 6},
		{"2bpp_linear", 5, 3, 7},
		{"4bpp_planar", 7, 7, 14},
		{"2bpp_planar_composite", 0, 6, 6},
		{"2bpp_chunky_zip16", 5, 3, 7},
		{"4bpp_chunky_zip16", 3, 2, 9},
		{"4bpp_linear_reverse", 3, 2, 9},
		{"4bpp_linear", 7, 7, 31},
		{"8bpp_planar", 4, 5, 5},
		{"8bpp_linear", 4, 5, 44},
	}
	for _, tc := range tests {
		c, err := Lookup(tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.offset, c.PixelByteOffset(tc.x, tc.y), tc.id)
	}
}
