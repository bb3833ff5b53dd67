package edit

import (
	"image"
)

// Points returns the pixels on the line from a to b inclusive, using
// Bresenham's algorithm.
func Points(a, b image.Point) []image.Point {
	dx, dy := abs(b.X-a.X), abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	points := make([]image.Point, 0, max(dx, dy)+1)
	err := dx - dy
	for p := a; ; {
		points = append(points, p)
		if p == b {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			p.X += sx
		}
		if e2 < dx {
			err += dx
			p.Y += sy
		}
	}
	return points
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Pencil paints a single pixel and returns the index of its tile.
func Pencil(o *Overlay, p image.Point, v uint8) (int, bool) {
	return o.SetPixel(p, v)
}

// Line paints the line from a to b, skipping pixels outside the grid. It
// returns the indices of the tiles touched, in the order first touched.
func Line(o *Overlay, a, b image.Point, v uint8) []int {
	var touched []int
	seen := make(map[int]struct{})
	for _, p := range Points(a, b) {
		if i, ok := o.SetPixel(p, v); ok {
			if _, ok := seen[i]; !ok {
				seen[i] = struct{}{}
				touched = append(touched, i)
			}
		}
	}
	return touched
}

// Fill flood fills the 4-connected region of pixels sharing the value at p
// with v. Pixels with no tile behind them bound the region. It returns the
// indices of the tiles touched, in the order first touched.
func Fill(o *Overlay, p image.Point, v uint8) []int {
	target, ok := o.Pixel(p)
	if !ok || target == o.clamp(v) {
		return nil
	}

	g := o.grid
	width, height := g.Width(), g.Height()
	visited := make([]bool, width*height)
	queue := []image.Point{p}
	visited[p.Y*width+p.X] = true

	var touched []int
	seen := make(map[int]struct{})

	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]

		if c, ok := o.Pixel(q); !ok || c != target {
			continue
		}
		i, _ := o.SetPixel(q, v)
		if _, ok := seen[i]; !ok {
			seen[i] = struct{}{}
			touched = append(touched, i)
		}

		for _, n := range [...]image.Point{{q.X + 1, q.Y}, {q.X - 1, q.Y}, {q.X, q.Y + 1}, {q.X, q.Y - 1}} {
			if n.X < 0 || n.Y < 0 || n.X >= width || n.Y >= height || visited[n.Y*width+n.X] {
				continue
			}
			visited[n.Y*width+n.X] = true
			queue = append(queue, n)
		}
	}
	return touched
}
