package image

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register decoders
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/bodgit/tilebravo/render"
	"github.com/bodgit/tilebravo/tile"
	"github.com/ericpauley/go-quantize/quantize"
)

// Options control how an image is turned into tiles.
type Options struct {
	// Palette to map colours to. If nil, a paletted image with few
	// enough colours keeps its own indices, anything else is quantized.
	Palette color.Palette
	// Colors is the number of values the target codec can hold
	Colors int
	// RowInterleaved reads the image as laid out by the row-interleaved
	// layout
	RowInterleaved bool
}

// Sheet is an image cut into tiles.
type Sheet struct {
	Tiles       []tile.Tile
	TilesPerRow int
	Rows        int
	Palette     color.Palette
}

// nearest returns the index of the colour in p closest to c. Mostly
// transparent pixels map to index 0.
func nearest(p color.Palette, c color.Color) uint8 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 0x80 {
		return 0
	}

	best, bestD := 0, -1
	for i, pc := range p {
		q := color.NRGBAModel.Convert(pc).(color.NRGBA)
		dr := int(n.R) - int(q.R)
		dg := int(n.G) - int(q.G)
		db := int(n.B) - int(q.B)
		d := dr*dr + dg*dg + db*db
		if bestD < 0 || d < bestD {
			best, bestD = i, d
			if d == 0 {
				break
			}
		}
	}
	return uint8(best)
}

// Decode reads an image from r and cuts it into tiles. PNG, GIF, JPEG and
// QOI are recognised.
func Decode(r io.Reader, o Options) (*Sheet, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(m, o)
}

// FromImage cuts m into tiles.
func FromImage(m image.Image, o Options) (*Sheet, error) {
	b := m.Bounds()
	if b.Empty() || b.Dx()%tile.Width != 0 || b.Dy()%tile.Height != 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrBadSize, b.Dx(), b.Dy())
	}

	colors := o.Colors
	if colors <= 0 || colors > 256 {
		colors = 256
	}

	p := o.Palette
	pm, paletted := m.(*image.Paletted)
	direct := p == nil && paletted && len(pm.Palette) <= colors
	switch {
	case direct:
		p = pm.Palette
	case p == nil:
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, colors), m)
	}

	s := &Sheet{
		TilesPerRow: b.Dx() / tile.Width,
		Rows:        b.Dy() / tile.Height,
		Palette:     p,
	}
	s.Tiles = make([]tile.Tile, s.TilesPerRow*s.Rows)

	// Cache lookups, sheets rarely have many distinct colours
	cache := make(map[color.Color]uint8)
	value := func(x, y int) uint8 {
		if direct {
			return pm.ColorIndexAt(x, y)
		}
		c := m.At(x, y)
		v, ok := cache[c]
		if !ok {
			v = nearest(p, c)
			cache[c] = v
		}
		return v
	}

	for ty := 0; ty < s.Rows; ty++ {
		for tx := 0; tx < s.TilesPerRow; tx++ {
			x, y := tx, ty
			if o.RowInterleaved {
				x, y = render.DisplayToOrig(tx, ty, s.TilesPerRow)
			}
			i := tile.Index(x, y, s.TilesPerRow)
			if i >= len(s.Tiles) {
				continue
			}
			for py := 0; py < tile.Height; py++ {
				for px := 0; px < tile.Width; px++ {
					s.Tiles[i].Set(px, py, value(b.Min.X+tx*tile.Width+px, b.Min.Y+ty*tile.Height+py))
				}
			}
		}
	}

	return s, nil
}
