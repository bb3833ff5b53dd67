package image

import (
	"image"
	"image/color"

	"github.com/bodgit/tilebravo/render"
	"github.com/bodgit/tilebravo/tile"
	"golang.org/x/image/draw"
)

var missing = color.RGBA{0xff, 0x00, 0xff, 0xff}

// padPalette returns p extended with magenta so every value used by tiles
// has a colour.
func padPalette(p color.Palette, tiles []tile.Tile) color.Palette {
	var top uint8
	for i := range tiles {
		for _, v := range tiles[i] {
			if v > top {
				top = v
			}
		}
	}

	out := make(color.Palette, len(p), max(len(p), int(top)+1))
	copy(out, p)
	for len(out) <= int(top) {
		out = append(out, missing)
	}
	return out
}

// Paletted lays tiles out in rows of tilesPerRow and returns them as an
// image whose colour indices are the pixel values. Slots left over in the
// last row are index 0.
func Paletted(tiles []tile.Tile, tilesPerRow int, p color.Palette, interleaved bool) *image.Paletted {
	tpr := max(1, tilesPerRow)
	rows := render.SurfaceRows(len(tiles), tpr, interleaved)
	m := image.NewPaletted(image.Rect(0, 0, tpr*tile.Width, rows*tile.Height), padPalette(p, tiles))

	for i := range tiles {
		x, y := tile.Position(i, tpr)
		if interleaved {
			x, y = render.OrigToDisplay(x, y, tpr)
		}
		for py := 0; py < tile.Height; py++ {
			off := m.PixOffset(x*tile.Width, y*tile.Height+py)
			copy(m.Pix[off:off+tile.Width], tiles[i][py*tile.Width:(py+1)*tile.Width])
		}
	}
	return m
}

// Scale enlarges m by zoom using nearest neighbour sampling. A paletted
// image stays paletted.
func Scale(m image.Image, zoom int) image.Image {
	if zoom <= 1 {
		return m
	}

	b := m.Bounds()
	r := image.Rect(0, 0, b.Dx()*zoom, b.Dy()*zoom)

	var dst draw.Image
	if pm, ok := m.(*image.Paletted); ok {
		dst = image.NewPaletted(r, pm.Palette)
	} else {
		dst = image.NewRGBA(r)
	}
	draw.NearestNeighbor.Scale(dst, r, m, b, draw.Src, nil)
	return dst
}
