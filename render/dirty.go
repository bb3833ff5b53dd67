package render

import "image"

// dirtySet accumulates the regions to repaint in the next frame. Once full
// is set individual rectangles no longer matter and are dropped.
type dirtySet struct {
	rects []image.Rectangle
	full  bool
}

func (d *dirtySet) add(r image.Rectangle) {
	if r.Empty() || d.full {
		return
	}
	d.rects = append(d.rects, r)
}

func (d *dirtySet) all() {
	d.full = true
	d.rects = d.rects[:0]
}

func (d *dirtySet) pending() bool {
	return d.full || len(d.rects) > 0
}

func (d *dirtySet) bounds() image.Rectangle {
	var r image.Rectangle
	for _, rect := range d.rects {
		r = r.Union(rect)
	}
	return r
}

func (d *dirtySet) clear() {
	d.full = false
	d.rects = d.rects[:0]
}
