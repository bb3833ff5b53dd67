package tilebravo

import (
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/tilebravo/edit"
	tileimage "github.com/bodgit/tilebravo/image"
	"github.com/bodgit/tilebravo/palette"
	"github.com/bodgit/tilebravo/render"
	"github.com/bodgit/tilebravo/stream"
	"github.com/bodgit/tilebravo/tile"
)

var (
	// ErrNoSelection is returned by operations that need a selection.
	ErrNoSelection = errors.New("tilebravo: nothing selected")
	// ErrEmptyClipboard is returned when pasting before anything was copied.
	ErrEmptyClipboard = errors.New("tilebravo: clipboard is empty")
)

// Document is an open dump: the source bytes, the parameters they are
// decoded with and the resulting tiles, with any edits made to them. A
// Document is not safe for concurrent use; background decodes hand their
// results back through Apply.
type Document struct {
	name       string
	src        []byte
	params     stream.Params
	grid       *edit.Grid
	overlay    *edit.Overlay
	engine     *render.Engine
	generation uint64
	truncated  bool
	selection  image.Rectangle
	clipboard  *edit.Clip
}

// Open decodes src with p and lays the tiles out tilesPerRow to a row.
func Open(name string, src []byte, p stream.Params, tilesPerRow int) (*Document, error) {
	tiles, err := stream.Decode(src, p)
	if err != nil {
		return nil, err
	}

	d := &Document{
		name:      name,
		src:       src,
		params:    p,
		grid:      edit.NewGrid(tiles, tilesPerRow),
		truncated: stream.Truncated(len(src), p),
	}
	d.overlay = edit.NewOverlay(d.grid, palette.Colors(p.Codec))

	return d, nil
}

// NewBlank returns a document of count blank tiles, backed by a buffer
// just large enough to hold them at the offsets p describes.
func NewBlank(name string, count int, p stream.Params, tilesPerRow int) (*Document, error) {
	src, err := stream.Encode(nil, make([]tile.Tile, max(1, count)), p)
	if err != nil {
		return nil, err
	}
	return Open(name, src, p, tilesPerRow)
}

// Name returns the name the document was opened with.
func (d *Document) Name() string {
	return d.name
}

// Source returns the bytes the document was opened with.
func (d *Document) Source() []byte {
	return d.src
}

// Params returns the current addressing parameters.
func (d *Document) Params() stream.Params {
	return d.params
}

// Tiles returns the committed tiles.
func (d *Document) Tiles() []tile.Tile {
	return d.grid.Tiles
}

// Len returns the number of tiles.
func (d *Document) Len() int {
	return d.grid.Len()
}

// TilesPerRow returns the width of the tile grid.
func (d *Document) TilesPerRow() int {
	return d.grid.TilesPerRow
}

// Truncated reports whether the source ended part way through the last
// tile, which was then padded with zero bytes.
func (d *Document) Truncated() bool {
	return d.truncated
}

// Colors returns the number of values a pixel can hold.
func (d *Document) Colors() int {
	return palette.Colors(d.params.Codec)
}

// NewEngine returns a render engine showing the document, including
// uncommitted edits, and attaches it so that every later change marks the
// affected area dirty. The tiles per row in l is overridden by the
// document's.
func (d *Document) NewEngine(p color.Palette, l render.Layout, opts ...render.Option) *render.Engine {
	l.TilesPerRow = d.grid.TilesPerRow
	d.engine = render.New(d.overlay, p, l, opts...)
	d.engine.SetSelection(d.selection, 0, 0)
	return d.engine
}

// Engine returns the attached render engine, if any.
func (d *Document) Engine() *render.Engine {
	return d.engine
}

func (d *Document) markTiles(indices []int) {
	if d.engine == nil {
		return
	}
	for _, i := range indices {
		d.engine.MarkTileDirty(i)
	}
}

func (d *Document) refresh() {
	if d.engine == nil {
		return
	}
	l := d.engine.Layout()
	if l.TilesPerRow != d.grid.TilesPerRow {
		l.TilesPerRow = d.grid.TilesPerRow
		d.engine.SetLayout(l)
	}
	d.engine.SetSource(d.overlay)
	d.engine.SetSelection(d.selection, 0, 0)
}

func (d *Document) setTiles(tiles []tile.Tile, truncated bool) {
	d.overlay.Discard()
	d.grid.Tiles = tiles
	d.truncated = truncated
	d.refresh()
}

// SetTilesPerRow changes the width of the tile grid.
func (d *Document) SetTilesPerRow(n int) {
	d.grid.TilesPerRow = max(1, n)
	d.refresh()
}

// Redecode decodes the source again with p, discarding every edit. If dec
// is nil, or it runs the decode synchronously, the tiles are replaced
// before Redecode returns. Otherwise they are replaced when the result is
// passed to Apply, and any earlier decode still in flight becomes stale.
func (d *Document) Redecode(p stream.Params, dec *Decoder) error {
	if p.Codec == nil {
		return stream.ErrNoCodec
	}

	d.params = p
	d.overlay.SetColors(palette.Colors(p.Codec))

	if dec == nil {
		d.generation = 0
		tiles, err := stream.Decode(d.src, p)
		if err != nil {
			return err
		}
		d.setTiles(tiles, stream.Truncated(len(d.src), p))
		return nil
	}

	gen, r := dec.Submit(d.src, p)
	d.generation = gen
	if r != nil {
		_, err := d.Apply(*r)
		return err
	}
	return nil
}

// Pending reports whether a background decode has been requested and not
// yet applied.
func (d *Document) Pending() bool {
	return d.generation != 0
}

// Apply replaces the tiles with those of a background decode. It reports
// false without changing anything if r is not the result of the latest
// request. A result that failed inside the worker pool is decoded again
// on the calling goroutine.
func (d *Document) Apply(r Result) (bool, error) {
	if d.generation == 0 || r.Generation != d.generation {
		return false, nil
	}

	tiles, truncated := r.Tiles, r.Truncated
	if r.Err != nil {
		if !errors.Is(r.Err, ErrWorker) {
			d.generation = 0
			return false, r.Err
		}
		var err error
		if tiles, err = stream.Decode(d.src, d.params); err != nil {
			d.generation = 0
			return false, err
		}
		truncated = stream.Truncated(len(d.src), d.params)
	}

	d.generation = 0
	d.setTiles(tiles, truncated)
	return true, nil
}

// Pencil paints the pixel at p.
func (d *Document) Pencil(p image.Point, v uint8) bool {
	i, ok := edit.Pencil(d.overlay, p, v)
	if ok {
		d.markTiles([]int{i})
	}
	return ok
}

// Line paints a line from a to b.
func (d *Document) Line(a, b image.Point, v uint8) []int {
	touched := edit.Line(d.overlay, a, b, v)
	d.markTiles(touched)
	return touched
}

// Fill flood fills the area around p.
func (d *Document) Fill(p image.Point, v uint8) []int {
	touched := edit.Fill(d.overlay, p, v)
	d.markTiles(touched)
	return touched
}

// PreviewLine shows a line from a to b without painting it.
func (d *Document) PreviewLine(a, b image.Point, v uint8) {
	if d.engine != nil {
		d.engine.SetLinePreview(a, b, v)
	}
}

// ClearPreview removes the line preview.
func (d *Document) ClearPreview() {
	if d.engine != nil {
		d.engine.ClearLinePreview()
	}
}

// Modified reports whether there are uncommitted edits.
func (d *Document) Modified() bool {
	return d.overlay.Dirty()
}

// Commit merges the uncommitted edits into the tiles.
func (d *Document) Commit() []int {
	return d.overlay.Commit()
}

// Discard drops the uncommitted edits.
func (d *Document) Discard() []int {
	touched := d.overlay.Discard()
	d.markTiles(touched)
	return touched
}

// Select sets the selection, in tile units. An empty rectangle clears it.
func (d *Document) Select(r image.Rectangle) {
	d.selection = r.Canon()
	if d.engine != nil {
		d.engine.SetSelection(d.selection, 0, 0)
	}
}

// Selection returns the selection in tile units.
func (d *Document) Selection() image.Rectangle {
	return d.selection
}

// DragSelection shows the selection being dragged by (dx, dy) tiles.
func (d *Document) DragSelection(dx, dy int) {
	if d.engine != nil {
		d.engine.SetSelection(d.selection, dx, dy)
	}
}

// MoveSelection moves the selected tiles by (dx, dy) tiles, blanking the
// area they leave.
func (d *Document) MoveSelection(dx, dy int) error {
	if d.selection.Empty() {
		return ErrNoSelection
	}
	d.overlay.Commit()
	d.selection = d.grid.Move(d.selection, dx, dy)
	if d.engine != nil {
		d.engine.SetSelection(d.selection, 0, 0)
		d.engine.MarkFullRedraw()
	}
	return nil
}

// Copy copies the selected tiles to the clipboard.
func (d *Document) Copy() error {
	if d.selection.Empty() {
		return ErrNoSelection
	}
	d.overlay.Commit()
	c := d.grid.Copy(d.selection)
	d.clipboard = &c
	return nil
}

// Paste writes the clipboard with its top left tile at at and selects it.
func (d *Document) Paste(at image.Point) ([]int, error) {
	if d.clipboard == nil {
		return nil, ErrEmptyClipboard
	}
	d.overlay.Commit()
	changed := d.grid.Paste(at, *d.clipboard)
	d.markTiles(changed)
	d.Select(image.Rect(at.X, at.Y, at.X+d.clipboard.Width, at.Y+d.clipboard.Height))
	return changed, nil
}

// WouldDiscard reports whether resizing to n tiles would lose a tile that
// is not blank.
func (d *Document) WouldDiscard(n int) bool {
	return d.grid.WouldDiscard(n)
}

// Resize grows or truncates the document to n tiles.
func (d *Document) Resize(n int) {
	d.overlay.Commit()
	d.grid.Resize(n)
	d.refresh()
}

// Export encodes the committed tiles back over a copy of the source.
func (d *Document) Export() ([]byte, error) {
	return stream.Encode(d.src, d.grid.Tiles, d.params)
}

// ExportSelection encodes the selected tiles contiguously, or every tile
// if nothing is selected.
func (d *Document) ExportSelection() []byte {
	tiles := d.grid.Tiles
	if !d.selection.Empty() {
		tiles = tile.Pick(tiles, d.grid.TilesPerRow, d.selection)
	}
	return stream.EncodeTiles(tiles, d.params.Codec)
}

// Image renders the committed tiles as a paletted image at one image
// pixel per tile pixel.
func (d *Document) Image(p color.Palette, interleaved bool) *image.Paletted {
	return tileimage.Paletted(d.grid.Tiles, d.grid.TilesPerRow, p, interleaved)
}

// ImportImage brings in the tiles of an image. If the selection has the
// same size in tiles the image is pasted into it and true is returned;
// otherwise the image replaces every tile and sets the grid width.
func (d *Document) ImportImage(s *tileimage.Sheet) bool {
	d.overlay.Commit()

	if !d.selection.Empty() && d.selection.Dx() == s.TilesPerRow && d.selection.Dy() == s.Rows {
		changed := d.grid.Paste(d.selection.Min, edit.Clip{
			Tiles:  s.Tiles,
			Width:  s.TilesPerRow,
			Height: s.Rows,
		})
		d.markTiles(changed)
		return true
	}

	tiles := make([]tile.Tile, max(1, len(s.Tiles)))
	copy(tiles, s.Tiles)
	d.grid.Tiles = tiles
	d.grid.TilesPerRow = max(1, s.TilesPerRow)
	d.selection = image.Rectangle{}
	d.refresh()
	return false
}

// GoToOffset returns the index of the tile holding byte ofs of the source,
// clamped to the tiles there are, and shows its page.
func (d *Document) GoToOffset(ofs int) int {
	base := stream.TileOffset(0, d.params)
	i := (ofs - base) / d.params.Step()
	if ofs < base {
		i = 0
	}
	i = max(0, min(i, d.grid.Len()-1))
	if d.engine != nil {
		d.engine.ShowIndex(i)
	}
	return i
}

// Status describes the pixel of the hit.
func (d *Document) Status(h render.Hit) Status {
	if h.Index < 0 || h.Index >= d.grid.Len() {
		return noStatus
	}
	tileOffset, pixelOffset := stream.Offsets(h.Col, h.Row, h.X, h.Y, d.grid.TilesPerRow, d.params)
	if tileOffset == stream.Invalid {
		return noStatus
	}
	return Status{
		Index:       h.Index,
		TileOffset:  tileOffset,
		PixelOffset: pixelOffset,
		Value:       int(d.overlay.At(h.Index).At(h.X, h.Y)),
	}
}

// StatusAt describes the pixel under the point pt of the engine's surface.
func (d *Document) StatusAt(pt image.Point) Status {
	if d.engine == nil {
		return noStatus
	}
	h, ok := d.engine.HitTest(pt)
	if !ok {
		return noStatus
	}
	return d.Status(h)
}
