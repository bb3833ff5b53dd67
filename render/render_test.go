package render

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/bodgit/tilebravo/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPalette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff},
	color.RGBA{0x55, 0x55, 0x55, 0xff},
	color.RGBA{0xaa, 0xaa, 0xaa, 0xff},
	color.RGBA{0xff, 0xff, 0xff, 0xff},
}

func randomTiles(r *rand.Rand, n int, colors int) Slice {
	tiles := make(Slice, n)
	for i := range tiles {
		for j := range tiles[i] {
			tiles[i][j] = uint8(r.Intn(colors))
		}
	}
	return tiles
}

func TestInterleaveExample(t *testing.T) {
	x, y := OrigToDisplay(1, 0, 16)
	assert.Equal(t, [2]int{0, 1}, [2]int{x, y})

	x, y = OrigToDisplay(0, 1, 16)
	assert.Equal(t, [2]int{1, 0}, [2]int{x, y})

	x, y = OrigToDisplay(2, 2, 16)
	assert.Equal(t, [2]int{2, 2}, [2]int{x, y})

	x, y = OrigToDisplay(3, 3, 16)
	assert.Equal(t, [2]int{3, 3}, [2]int{x, y})
}

func TestInterleaveInvolution(t *testing.T) {
	for tpr := 1; tpr <= 9; tpr++ {
		seen := make(map[[2]int]struct{})
		for y := 0; y < 20; y++ {
			for x := 0; x < tpr; x++ {
				dx, dy := OrigToDisplay(x, y, tpr)
				ox, oy := DisplayToOrig(dx, dy, tpr)
				assert.Equal(t, [2]int{x, y}, [2]int{ox, oy})

				ox, oy = DisplayToOrig(x, y, tpr)
				dx, dy = OrigToDisplay(ox, oy, tpr)
				assert.Equal(t, [2]int{x, y}, [2]int{dx, dy})

				assert.Less(t, dx, tpr)
				seen[[2]int{dx, dy}] = struct{}{}
			}
		}
		assert.Len(t, seen, 20*tpr)
	}
}

func TestSurfaceRows(t *testing.T) {
	tests := []struct {
		count, tpr  int
		interleaved bool
		rows        int
	}{
		{0, 4, false, 1},
		{4, 4, false, 1},
		{5, 4, false, 2},
		{1, 4, true, 1},
		{4, 4, true, 2},
		{5, 4, true, 2},
		{6, 4, true, 2},
		{9, 4, true, 3},
		{10, 4, true, 4},
		{8, 4, true, 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.rows, SurfaceRows(tt.count, tt.tpr, tt.interleaved), "%+v", tt)
	}
}

func TestInterleavedLayoutFitsSurface(t *testing.T) {
	for tpr := 1; tpr <= 6; tpr++ {
		for count := 1; count <= 30; count++ {
			rows := SurfaceRows(count, tpr, true)
			for i := 0; i < count; i++ {
				x, y := OrigToDisplay(i%tpr, i/tpr, tpr)
				assert.Less(t, y, rows, "tpr %d count %d index %d", tpr, count, i)
				assert.Less(t, x, tpr)
			}
		}
	}
}

func TestFirstFrameIsFull(t *testing.T) {
	e := New(make(Slice, 6), testPalette, Layout{TilesPerRow: 4, PixelSize: 2})

	assert.True(t, e.Pending())
	assert.Equal(t, image.Rect(0, 0, 64, 32), e.Frame())
	assert.False(t, e.Pending())
	assert.True(t, e.Frame().Empty())
	assert.Equal(t, image.Rect(0, 0, 64, 32), e.Surface().Rect)
}

func TestDegenerateRectDropped(t *testing.T) {
	e := New(make(Slice, 4), testPalette, Layout{TilesPerRow: 2, PixelSize: 1})
	e.Frame()

	e.MarkDirtyRect(image.Rect(3, 3, 3, 10))
	e.MarkDirtyRect(image.Rect(3, 3, 10, 3))
	assert.False(t, e.Pending())
	assert.True(t, e.Frame().Empty())
}

func TestDirtyRectsCoalesce(t *testing.T) {
	e := New(make(Slice, 16), testPalette, Layout{TilesPerRow: 4, PixelSize: 1})
	e.Frame()

	e.MarkDirtyRect(image.Rect(1, 2, 3, 4))
	e.MarkDirtyRect(image.Rect(10, 12, 11, 20))
	assert.Equal(t, image.Rect(1, 2, 11, 20), e.Frame())

	e.MarkDirtyRect(image.Rect(20, 20, 100, 100))
	assert.Equal(t, image.Rect(20, 20, 32, 32), e.Frame())
}

func TestFullRedrawDiscardsRects(t *testing.T) {
	e := New(make(Slice, 16), testPalette, Layout{TilesPerRow: 4, PixelSize: 1})
	e.Frame()

	e.MarkDirtyRect(image.Rect(1, 2, 3, 4))
	e.MarkFullRedraw()
	e.MarkDirtyRect(image.Rect(1, 2, 3, 4))
	assert.Empty(t, e.dirty.rects)
	assert.Equal(t, image.Rect(0, 0, 32, 32), e.Frame())
}

func TestMarkTileDirty(t *testing.T) {
	e := New(make(Slice, 8), testPalette, Layout{TilesPerRow: 4, PixelSize: 2, RowInterleaved: true})
	e.Frame()

	// Tile 1 is shown below tile 0
	e.MarkTileDirty(1)
	assert.Equal(t, image.Rect(0, 16, 16, 32), e.Frame())

	e.MarkTileDirty(100)
	assert.False(t, e.Pending())
}

func TestRunLengthMatchesNaive(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	tiles := randomTiles(r, 6, 5)
	palette := testPalette[:4]

	e := New(tiles, palette, Layout{TilesPerRow: 3, PixelSize: 3})
	e.Frame()

	surface := e.Surface()
	for i := range tiles {
		col, row := tile.Position(i, 3)
		for y := 0; y < tile.Height; y++ {
			for x := 0; x < tile.Width; x++ {
				want := color.RGBAModel.Convert(color.RGBA{0xff, 0x00, 0xff, 0xff})
				if v := tiles[i].At(x, y); int(v) < len(palette) {
					want = color.RGBAModel.Convert(palette[v])
				}
				for sy := 0; sy < 3; sy++ {
					for sx := 0; sx < 3; sx++ {
						px := (col*tile.Width+x)*3 + sx
						py := (row*tile.Height+y)*3 + sy
						require.Equal(t, want, surface.At(px, py), "tile %d pixel (%d, %d)", i, x, y)
					}
				}
			}
		}
	}
}

func TestPlaceholder(t *testing.T) {
	tiles := make(Slice, 2)
	tiles[0][0] = 3

	e := New(tiles, testPalette, Layout{TilesPerRow: 2, PixelSize: 1})
	e.SetViewOffset(-1)
	e.Frame()

	surface := e.Surface()
	assert.Equal(t, image.Rect(0, 0, 16, 16), surface.Rect)

	// Slot 0 has no tile behind it
	assert.Equal(t, crossColor, surface.RGBAAt(0, 0))
	assert.Equal(t, crossColor, surface.RGBAAt(7, 0))
	assert.Equal(t, testPalette[0], surface.RGBAAt(1, 0))

	// Slot 1 is tile 0
	assert.Equal(t, testPalette[3], surface.RGBAAt(8, 0))

	_, ok := e.HitTest(image.Pt(0, 0))
	assert.False(t, ok)
	hit, ok := e.HitTest(image.Pt(9, 0))
	require.True(t, ok)
	assert.Equal(t, 0, hit.Index)
}

func TestPagination(t *testing.T) {
	e := New(make(Slice, 100), testPalette, Layout{TilesPerRow: 4, PixelSize: 1}, WithMaxTiles(32))

	assert.True(t, e.Paged())
	assert.Equal(t, 32, e.PageTileCount())
	assert.Equal(t, 4, e.Pages())
	assert.Equal(t, image.Rect(0, 0, 32, 64), e.Bounds())

	e.SetPage(10)
	assert.Equal(t, 3, e.Page())
	assert.Equal(t, 96, e.Base())

	e.SetPage(-1)
	assert.Equal(t, 0, e.Page())
}

func TestPaginationByDimension(t *testing.T) {
	e := New(make(Slice, 100), testPalette, Layout{TilesPerRow: 4, PixelSize: 2, RowInterleaved: true}, WithMaxDimension(160))

	require.True(t, e.Paged())
	assert.Equal(t, 40, e.PageTileCount())
	assert.Equal(t, 3, e.Pages())
	assert.LessOrEqual(t, e.Bounds().Dy(), 160)

	e.SetPage(2)
	e.SetLayout(Layout{TilesPerRow: 4, PixelSize: 1, RowInterleaved: true})
	assert.Equal(t, 80, e.PageTileCount())
	assert.Equal(t, 2, e.Pages())
	assert.Equal(t, 1, e.Page())

	e.SetLayout(Layout{TilesPerRow: 16, PixelSize: 1})
	assert.False(t, e.Paged())
	assert.Equal(t, 0, e.Page())
}

func TestPaginationKeepsInterleavedPairs(t *testing.T) {
	e := New(make(Slice, 100), testPalette, Layout{TilesPerRow: 4, PixelSize: 1, RowInterleaved: true}, WithMaxDimension(8*7))

	require.True(t, e.Paged())
	assert.Equal(t, 6*4, e.PageTileCount())
}

func TestPagedTailPlaceholders(t *testing.T) {
	tiles := make(Slice, 10)
	e := New(tiles, testPalette, Layout{TilesPerRow: 2, PixelSize: 1}, WithMaxTiles(4))
	e.SetPage(2)
	e.Frame()

	// Slots 0 and 1 show tiles 8 and 9, slots 2 and 3 have nothing
	assert.Equal(t, testPalette[0], e.Surface().RGBAAt(1, 0))
	assert.Equal(t, crossColor, e.Surface().RGBAAt(0, 8))

	_, ok := e.HitTest(image.Pt(0, 8))
	assert.False(t, ok)
}

func TestHitTestAddsPageBase(t *testing.T) {
	e := New(make(Slice, 100), testPalette, Layout{TilesPerRow: 4, PixelSize: 2}, WithMaxTiles(32))
	e.SetPage(1)

	hit, ok := e.HitTest(image.Pt(16+2*2, 3*2))
	require.True(t, ok)
	assert.Equal(t, Hit{Index: 33, Col: 1, Row: 8, X: 2, Y: 3}, hit)
	assert.Equal(t, image.Pt(10, 67), hit.Point())

	_, ok = e.HitTest(image.Pt(-1, 0))
	assert.False(t, ok)
	_, ok = e.HitTest(image.Pt(64, 0))
	assert.False(t, ok)
}

func TestHitTestInterleaved(t *testing.T) {
	e := New(make(Slice, 4), testPalette, Layout{TilesPerRow: 2, PixelSize: 1, RowInterleaved: true})

	hit, ok := e.HitTest(image.Pt(0, 8))
	require.True(t, ok)
	assert.Equal(t, 1, hit.Index)

	hit, ok = e.HitTest(image.Pt(8, 0))
	require.True(t, ok)
	assert.Equal(t, 2, hit.Index)
}

func TestShowIndex(t *testing.T) {
	e := New(make(Slice, 100), testPalette, Layout{TilesPerRow: 4, PixelSize: 1}, WithMaxTiles(32))

	assert.True(t, e.ShowIndex(70))
	assert.Equal(t, 2, e.Page())
	slot, ok := e.WindowIndex(70)
	require.True(t, ok)
	assert.Equal(t, 6, slot)

	assert.False(t, e.ShowIndex(200))
}

func TestFrameRequestsCoalesce(t *testing.T) {
	var queued []func()
	e := New(make(Slice, 16), testPalette, Layout{TilesPerRow: 4, PixelSize: 1}, WithFrameRequester(func(fn func()) {
		queued = append(queued, fn)
	}))
	require.Len(t, queued, 1)

	e.MarkTileDirty(1)
	e.MarkTileDirty(2)
	assert.Len(t, queued, 1)

	queued[0]()
	assert.False(t, e.Pending())

	e.MarkTileDirty(3)
	e.MarkTileDirty(4)
	assert.Len(t, queued, 2)
	queued[1]()
	assert.False(t, e.Pending())
}

func TestLinePreview(t *testing.T) {
	e := New(make(Slice, 4), testPalette, Layout{TilesPerRow: 2, PixelSize: 2})
	e.Frame()

	e.SetLinePreview(image.Pt(1, 1), image.Pt(4, 1), 2)
	assert.Equal(t, image.Rect(2, 2, 10, 4), e.Frame())
	assert.Equal(t, testPalette[2], e.Surface().RGBAAt(2, 2))
	assert.Equal(t, testPalette[2], e.Surface().RGBAAt(9, 3))
	assert.Equal(t, testPalette[0], e.Surface().RGBAAt(10, 2))

	e.ClearLinePreview()
	assert.Equal(t, image.Rect(2, 2, 10, 4), e.Frame())
	assert.Equal(t, testPalette[0], e.Surface().RGBAAt(2, 2))
}

func TestSelectionMarksOldAndNew(t *testing.T) {
	e := New(make(Slice, 16), testPalette, Layout{TilesPerRow: 4, PixelSize: 1})
	e.Frame()

	e.SetSelection(image.Rect(0, 0, 1, 1), 0, 0)
	assert.Equal(t, image.Rect(0, 0, 8, 8), e.Frame())

	e.SetSelection(image.Rect(0, 0, 1, 1), 2, 1)
	assert.Equal(t, image.Rect(0, 0, 24, 16), e.Frame())

	e.SetSelection(image.Rectangle{}, 0, 0)
	assert.Equal(t, image.Rect(16, 8, 24, 16), e.Frame())
}

func renderFull(tiles Slice, l Layout, sel image.Rectangle, dx, dy int, line [2]image.Point, lineOn bool) *image.RGBA {
	e := New(tiles, testPalette, l)
	e.SetSelection(sel, dx, dy)
	if lineOn {
		e.SetLinePreview(line[0], line[1], 3)
	}
	e.Frame()
	return e.Surface()
}

func TestDirtyRectEquivalence(t *testing.T) {
	layouts := []Layout{
		{TilesPerRow: 4, PixelSize: 1},
		{TilesPerRow: 4, PixelSize: 3, TileGrid: true, PixelGrid: true},
		{TilesPerRow: 3, PixelSize: 4, RowInterleaved: true, TileGrid: true},
		{TilesPerRow: 5, PixelSize: 8, RowInterleaved: true, TileGrid: true, PixelGrid: true},
	}

	for _, l := range layouts {
		r := rand.New(rand.NewSource(int64(l.TilesPerRow*100 + l.PixelSize)))
		tiles := randomTiles(r, 13, 4)

		e := New(tiles, testPalette, l)
		e.Frame()

		sel := image.Rect(1, 1, 3, 2)
		e.SetSelection(sel, 0, 0)
		e.Frame()

		edits := func(steps int) {
			for step := 0; step < steps; step++ {
				i := r.Intn(len(tiles))
				if step%3 == 0 {
					i = tile.Index(sel.Min.X, sel.Min.Y, l.TilesPerRow)
				}
				tiles[i].Set(r.Intn(tile.Width), r.Intn(tile.Height), uint8(r.Intn(4)))
				e.MarkTileDirty(i)
				if step%7 == 0 {
					e.MarkDirtyRect(image.Rect(r.Intn(40), r.Intn(40), r.Intn(80), r.Intn(80)))
				}
				if step%5 == 0 {
					e.Frame()
				}
			}
		}

		edits(40)

		e.SetSelection(sel, 1, 1)
		e.Frame()

		edits(40)
		e.Frame()

		line := [2]image.Point{{2, 3}, {30, 17}}
		e.SetLinePreview(line[0], line[1], 3)
		e.Frame()

		want := renderFull(tiles, l, sel, 1, 1, line, true)
		require.Equal(t, want.Rect, e.Surface().Rect)
		assert.Equal(t, want.Pix, e.Surface().Pix, "%+v", l)
	}
}

func TestEditDuringDragRepaintsGhost(t *testing.T) {
	for _, interleaved := range []bool{false, true} {
		l := Layout{TilesPerRow: 4, PixelSize: 1, RowInterleaved: interleaved}
		tiles := make(Slice, 16)

		e := New(tiles, testPalette, l)
		e.SetSelection(image.Rect(0, 0, 1, 1), 2, 1)
		e.Frame()

		tiles[0].Set(3, 3, 3)
		e.MarkTileDirty(0)
		e.Frame()

		want := renderFull(tiles, l, image.Rect(0, 0, 1, 1), 2, 1, [2]image.Point{}, false)
		assert.Equal(t, want.Pix, e.Surface().Pix, "interleaved %t", interleaved)
	}
}

func TestInterleavedSelectionFollowsTiles(t *testing.T) {
	l := Layout{TilesPerRow: 4, PixelSize: 1, RowInterleaved: true}
	e := New(make(Slice, 16), testPalette, l)
	e.Frame()

	r, ok := e.TileRect(1)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 8, 8, 16), r)

	hit, ok := e.HitTest(image.Pt(4, 12))
	require.True(t, ok)
	assert.Equal(t, 1, hit.Index)

	e.SetSelection(image.Rect(hit.Col, hit.Row, hit.Col+1, hit.Row+1), 0, 0)
	assert.Equal(t, r, e.Frame())

	blank := testPalette[0]
	assert.NotEqual(t, blank, e.Surface().RGBAAt(4, 12))
	assert.Equal(t, blank, e.Surface().RGBAAt(12, 4))

	e.SetSelection(image.Rectangle{}, 0, 0)
	assert.Equal(t, r, e.Frame())
	assert.Equal(t, blank, e.Surface().RGBAAt(4, 12))
}
