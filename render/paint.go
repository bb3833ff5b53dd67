package render

import (
	"image"
	"image/color"

	"github.com/bodgit/tilebravo/tile"
	"golang.org/x/image/draw"
)

var (
	missingColor   = image.NewUniform(color.RGBA{0xff, 0x00, 0xff, 0xff})
	crossColor     = color.RGBA{0x80, 0x80, 0x80, 0xff}
	gridDark       = image.NewUniform(color.NRGBA{0x00, 0x00, 0x00, 0xe6})
	gridLight      = image.NewUniform(color.NRGBA{0xff, 0xff, 0xff, 0xe6})
	pixelGridDark  = image.NewUniform(color.NRGBA{0x00, 0x00, 0x00, 0x38})
	pixelGridLight = image.NewUniform(color.NRGBA{0xff, 0xff, 0xff, 0x1f})
	selectionTint  = image.NewUniform(color.NRGBA{0x50, 0xa0, 0xff, 0x26})
	ghostMask      = image.NewUniform(color.Alpha{0x80})
)

// lineWidths returns the widths of the dark and light strokes used for the
// tile grid and the selection border.
func lineWidths(pixelSize int) (int, int) {
	dark := max(2, pixelSize/4)
	return dark, max(1, dark/2)
}

// paint repaints dst, a sub-image of the surface. Every drawing operation is
// clipped to dst so a partial frame produces exactly the pixels a full one
// would.
func (e *Engine) paint(dst *image.RGBA) {
	draw.Draw(dst, dst.Rect, image.Transparent, image.Point{}, draw.Src)

	e.paintTiles(dst)
	e.paintLine(dst)
	if e.layout.TileGrid {
		e.paintTileGrid(dst)
	}
	if e.layout.PixelGrid {
		e.paintPixelGrid(dst)
	}
	e.paintSelection(dst)
}

func (e *Engine) paintTiles(dst *image.RGBA) {
	l := e.layout
	ts := l.tileSize()
	clip := dst.Rect
	base, n := e.base(), e.src.Len()

	for dy := clip.Min.Y / ts; dy <= (clip.Max.Y-1)/ts; dy++ {
		for dx := clip.Min.X / ts; dx <= (clip.Max.X-1)/ts; dx++ {
			x, y := dx, dy
			if l.RowInterleaved {
				x, y = DisplayToOrig(dx, dy, l.TilesPerRow)
			}
			slot := tile.Index(x, y, l.TilesPerRow)
			if slot >= e.slots {
				continue
			}

			at := image.Pt(dx*ts, dy*ts)
			if i := base + slot; i >= 0 && i < n {
				e.drawTile(dst, at, e.src.At(i), nil)
			} else {
				e.drawMissing(dst, at)
			}
		}
	}
}

// drawTile paints t with its top left corner at at. Horizontal runs of the
// same value are painted as a single fill. With a mask the tile is
// composited over what is already there.
func (e *Engine) drawTile(dst *image.RGBA, at image.Point, t *tile.Tile, mask image.Image) {
	ps := e.layout.PixelSize
	op := draw.Src
	if mask != nil {
		op = draw.Over
	}

	for y := 0; y < tile.Height; y++ {
		for x := 0; x < tile.Width; {
			v := t.At(x, y)
			end := x + 1
			for end < tile.Width && t.At(end, y) == v {
				end++
			}
			r := image.Rect(at.X+x*ps, at.Y+y*ps, at.X+end*ps, at.Y+(y+1)*ps)
			draw.DrawMask(dst, r, e.color(v), image.Point{}, mask, image.Point{}, op)
			x = end
		}
	}
}

// drawMissing paints a slot with no tile behind it: value zero with a
// diagonal cross on top.
func (e *Engine) drawMissing(dst *image.RGBA, at image.Point) {
	ts := e.layout.tileSize()
	draw.Draw(dst, image.Rect(at.X, at.Y, at.X+ts, at.Y+ts), e.color(0), image.Point{}, draw.Src)
	for i := 0; i < ts; i++ {
		dst.SetRGBA(at.X+i, at.Y+i, crossColor)
		dst.SetRGBA(at.X+ts-1-i, at.Y+i, crossColor)
	}
}

func (e *Engine) paintLine(dst *image.RGBA) {
	c := e.color(e.lineValue)
	for _, p := range e.line {
		if r, ok := e.pixelRect(p); ok {
			draw.Draw(dst, r, c, image.Point{}, draw.Src)
		}
	}
}

func (e *Engine) paintTileGrid(dst *image.RGBA) {
	l := e.layout
	ts := l.tileSize()
	bounds := e.surface.Rect
	clip := dst.Rect
	dark, light := lineWidths(l.PixelSize)

	pass := func(src image.Image, width int) {
		for y := max(0, (clip.Min.Y-width)/ts); y <= min(e.rows, (clip.Max.Y+width)/ts); y++ {
			top := y*ts - width/2
			draw.Draw(dst, image.Rect(bounds.Min.X, top, bounds.Max.X, top+width), src, image.Point{}, draw.Over)
		}
		for x := max(0, (clip.Min.X-width)/ts); x <= min(l.TilesPerRow, (clip.Max.X+width)/ts); x++ {
			left := x*ts - width/2
			draw.Draw(dst, image.Rect(left, bounds.Min.Y, left+width, bounds.Max.Y), src, image.Point{}, draw.Over)
		}
	}

	pass(gridDark, dark)
	pass(gridLight, light)
}

func (e *Engine) paintPixelGrid(dst *image.RGBA) {
	ps := e.layout.PixelSize
	bounds := e.surface.Rect
	clip := dst.Rect

	pass := func(src image.Image) {
		for y := clip.Min.Y / ps * ps; y < clip.Max.Y; y += ps {
			draw.Draw(dst, image.Rect(bounds.Min.X, y, bounds.Max.X, y+1), src, image.Point{}, draw.Over)
		}
		for x := clip.Min.X / ps * ps; x < clip.Max.X; x += ps {
			draw.Draw(dst, image.Rect(x, bounds.Min.Y, x+1, bounds.Max.Y), src, image.Point{}, draw.Over)
		}
	}

	pass(pixelGridDark)
	pass(pixelGridLight)
}

// paintSelection paints the selection overlay. While a move is in progress
// the selected tiles are shown half transparent at their destination.
func (e *Engine) paintSelection(dst *image.RGBA) {
	cells := e.selectionCells()
	if len(cells) == 0 {
		return
	}

	moving := e.moveX != 0 || e.moveY != 0
	for _, c := range cells {
		if moving && c.index >= 0 {
			e.drawTile(dst, c.rect.Min, e.src.At(c.index), ghostMask)
		}
		draw.Draw(dst, c.rect, selectionTint, image.Point{}, draw.Over)
	}

	dark, light := lineWidths(e.layout.PixelSize)
	if e.selectionContiguous() {
		r := e.selectionRect()
		drawOutline(dst, r, dark, gridDark)
		drawOutline(dst, r, light, gridLight)
		return
	}
	for _, c := range cells {
		drawOutline(dst, c.rect, dark, gridDark)
		drawOutline(dst, c.rect, light, gridLight)
	}
}

// drawOutline paints a border of the given width just inside r.
func drawOutline(dst draw.Image, r image.Rectangle, width int, src image.Image) {
	width = min(width, r.Dx()/2, r.Dy()/2)
	if width < 1 {
		draw.Draw(dst, r, src, image.Point{}, draw.Over)
		return
	}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), src, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), src, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width), src, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width), src, image.Point{}, draw.Over)
}
