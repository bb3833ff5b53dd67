package palette

import (
	"image/color"
	"math"
)

// Grayscale returns a ramp of n greys from black to white.
func Grayscale(n int) color.Palette {
	return Gradient(n, [3]float64{0, 0, 0}, [3]float64{255, 255, 255})
}

// Gradient returns n colours interpolated linearly from one RGB triple to
// another.
func Gradient(n int, from, to [3]float64) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		p[i] = rgb(
			from[0]+(to[0]-from[0])*t,
			from[1]+(to[1]-from[1])*t,
			from[2]+(to[2]-from[2])*t,
		)
	}
	return p
}

// HSV converts a hue in degrees and saturation and value in [0, 1] to RGB.
func HSV(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g = c, x
	case h < 120:
		r, g = x, c
	case h < 180:
		g, b = c, x
	case h < 240:
		g, b = x, c
	case h < 300:
		r, b = x, c
	default:
		r, b = c, x
	}
	return rgb((r+m)*255, (g+m)*255, (b+m)*255)
}

// Rainbow returns n fully saturated hues evenly spaced around the wheel.
func Rainbow(n int) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		p[i] = HSV(float64(i)/float64(max(1, n))*360, 1, 1)
	}
	return p
}

type lcg uint32

func (l *lcg) next() float64 {
	*l = *l*1664525 + 1013904223
	return float64(*l) / (1 << 32)
}

// Vivid returns n saturated colours from a seeded generator, shuffled so
// that neighbouring values are unlikely to look alike.
func Vivid(n int, seed uint32) color.Palette {
	rnd := lcg(seed)
	out := make(color.Palette, n)
	for i := range out {
		h := rnd.next() * 360
		s := 0.85 + 0.15*rnd.next()
		v := 0.80 + 0.20*rnd.next()
		out[i] = HSV(h, s, v)
	}

	p := make(color.Palette, n)
	for i := range p {
		p[i] = out[i*73%n]
	}
	return p
}

// Checker returns n colours laid out as a square checkerboard of hues with
// alternating brightness.
func Checker(n int) color.Palette {
	cols := min(16, max(1, int(math.Round(math.Sqrt(float64(n))))))
	p := make(color.Palette, n)
	for i := range p {
		row, col := i/cols, i%cols
		h := ((row*37+col*61)%360 + row*19 + col*7) % 360
		v := 0.78
		if (row^col)&1 == 1 {
			v = 1
		}
		p[i] = HSV(float64(h), 0.9, v)
	}
	return p
}

// Scramble returns n colours whose hues come from a bit scramble of the
// pixel value.
func Scramble(n int) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		rot := (i<<5 | i>>3) & 0xff
		j := (i ^ rot ^ 0xa5) & 0xff
		v := 0.76
		switch i & 3 {
		case 0:
			v = 1
		case 1:
			v = 0.88
		}
		p[i] = HSV(float64(j)/256*360, 0.95, v)
	}
	return p
}

// RGB332 maps each value to a colour by treating it as 3 bits of red, 3 of
// green and 2 of blue.
func RGB332(n int) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		r, g, b := i>>5&7, i>>2&7, i&3
		p[i] = rgb(float64(r)/7*255, float64(g)/7*255, float64(b)/3*255)
	}
	return p
}

func reverse(p color.Palette) color.Palette {
	r := make(color.Palette, len(p))
	for i, c := range p {
		r[len(p)-1-i] = c
	}
	return r
}

func mustParse(colors ...string) color.Palette {
	p, err := Parse(colors)
	if err != nil {
		panic(err)
	}
	return p
}

func truncate(p color.Palette, n int) color.Palette {
	return p[:min(n, len(p))]
}

// Defaults returns the built in palettes for n colours. The first entry is
// always a greyscale ramp.
func Defaults(n int) []Def {
	n = max(1, n)

	switch {
	case n <= 4:
		gray := Grayscale(4)
		defs := []Def{
			{"Grayscale", gray},
			{"Grayscale Inverted", reverse(gray)},
			{"GameBoy", mustParse("#0F380F", "#306230", "#8BAC0F", "#9BBC0F")},
			{"Primary Contrast", mustParse("#000000", "#FF0000", "#00FF00", "#0000FF")},
			{"Blue/Orange", mustParse("#0B1E3B", "#E76F51", "#2A9D8F", "#FFFFFF")},
			{"Vivid 4 A", Vivid(4, 0xc0ffee)},
			{"Vivid 4 B", Vivid(4, 0xbadc0de)},
			{"Checker 4", Checker(4)},
			{"XOR 4", Scramble(4)},
		}
		for i := range defs {
			defs[i].Colors = truncate(defs[i].Colors, n)
		}
		return defs
	case n <= 16:
		gray := Grayscale(16)
		return []Def{
			{"Grayscale", truncate(gray, n)},
			{"Grayscale Inverted", truncate(reverse(gray), n)},
			{"Rainbow", truncate(Rainbow(16), n)},
			{"Cool", truncate(Gradient(16, [3]float64{10, 20, 60}, [3]float64{180, 220, 255}), n)},
			{"Warm", truncate(reverse(Gradient(16, [3]float64{60, 20, 10}, [3]float64{255, 220, 180})), n)},
			{"Vivid 16 A", Vivid(n, 0xc0ffee)},
			{"Vivid 16 B", Vivid(n, 0xbadc0de)},
			{"Checker 16", Checker(n)},
			{"XOR 16", Scramble(n)},
		}
	case n <= 256:
		return []Def{
			{"Grayscale", Grayscale(n)},
			{"Grayscale Inverted", reverse(Grayscale(n))},
			{"Rainbow", Rainbow(n)},
			{"Cool to Warm", Gradient(n, [3]float64{10, 20, 60}, [3]float64{255, 220, 180})},
			{"Warm to Dark", reverse(Gradient(n, [3]float64{255, 220, 180}, [3]float64{60, 20, 10}))},
			{"RGB 332", RGB332(n)},
			{"Vivid Random A", Vivid(n, 0xc0ffee)},
			{"Vivid Random B", Vivid(n, 0xbadc0de)},
			{"Vivid Random C", Vivid(n, 0xdeadbeef)},
			{"Checker Vivid", Checker(n)},
			{"XOR Scramble", Scramble(n)},
		}
	}
	return []Def{{"Grayscale", Grayscale(n)}}
}
