package codec

import (
	"fmt"
	"image/color"
)

var (
	registry = make(map[string]*Codec)
	ordered  []*Codec
)

func register(d Descriptor, l layout) *Codec {
	if _, ok := registry[d.ID]; ok {
		panic("codec: duplicate id " + d.ID)
	}
	if d.Colors == 0 && d.Mode == Indexed {
		d.Colors = 1 << d.BitsPerPixel
	}
	c := &Codec{Descriptor: d, layout: l}
	registry[d.ID] = c
	ordered = append(ordered, c)
	return c
}

func packedSize(bpp int) int {
	return 64 * bpp / 8
}

func registerPlanar(id, name string, bpp int, offset func(plane, row int) int) *Codec {
	return register(Descriptor{
		ID:           id,
		Name:         name,
		BitsPerPixel: bpp,
		Mode:         Indexed,
		BytesPerTile: packedSize(bpp),
	}, planar{planes: bpp, offset: offset})
}

func registerLinear(id, name string, bpp int, msbFirst bool, p color.Palette) *Codec {
	return register(Descriptor{
		ID:             id,
		Name:           name,
		BitsPerPixel:   bpp,
		Mode:           Indexed,
		BytesPerTile:   packedSize(bpp),
		DefaultPalette: p,
	}, linear{bpp: bpp, msbFirst: msbFirst})
}

func registerZip16(id, name string, inner *Codec) *Codec {
	return register(Descriptor{
		ID:           id,
		Name:         name,
		BitsPerPixel: inner.BitsPerPixel,
		Mode:         Indexed,
		BytesPerTile: inner.BytesPerTile,
	}, chunkyZip16{planar: inner.layout, bpp: inner.BitsPerPixel, size: inner.BytesPerTile})
}

func init() {
	registerLinear("1bpp_linear", "1bpp linear", 1, true, color.Palette{color.Black, color.White})
	planar2 := registerPlanar("2bpp_planar", "2bpp planar", 2, interleavedRows)
	registerLinear("2bpp_linear", "2bpp linear", 2, true, nil)
	planar4 := registerPlanar("4bpp_planar", "4bpp planar", 4, interleavedPairs)
	registerPlanar("2bpp_planar_composite", "2bpp planar composite", 2, sequentialPlanes)
	registerZip16("2bpp_chunky_zip16", "2bpp chunky (zip16)", planar2)
	registerZip16("4bpp_chunky_zip16", "4bpp chunky (zip16)", planar4)
	registerLinear("4bpp_linear_reverse", "4bpp linear (reverse-order)", 4, false, nil)
	registerLinear("4bpp_linear", "4bpp linear", 4, true, nil)
	registerPlanar("8bpp_planar", "8bpp planar", 8, sequentialPlanes)
	registerLinear("8bpp_linear", "8bpp linear", 8, true, nil)
}

// Lookup returns the codec registered under id.
func Lookup(id string) (*Codec, error) {
	c, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, id)
	}
	return c, nil
}

// All returns every registered codec in registration order.
func All() []*Codec {
	return append([]*Codec(nil), ordered...)
}

// IDs returns the id of every registered codec in registration order.
func IDs() []string {
	ids := make([]string, len(ordered))
	for i, c := range ordered {
		ids[i] = c.ID
	}
	return ids
}
