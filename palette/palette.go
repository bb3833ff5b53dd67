/*
Package palette provides display colours for tile pixel values.

A palette maps each pixel value to a colour; the editor ships a set of
named defaults for each colour count so that data can be viewed without
knowing its real colours. Palettes are exchanged as JSON documents of the
form {"name": "...", "colors": ["#RRGGBB", ...]}.
*/
package palette

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bodgit/tilebravo/codec"
)

var (
	// ErrBadColor is returned for colours that are not #RRGGBB or #RGB
	ErrBadColor = errors.New("palette: invalid colour")
	// ErrWrongSize is returned when a palette has the wrong number of colours
	ErrWrongSize = errors.New("palette: wrong number of colours")
	// ErrNotFound is returned when no default palette has the given name
	ErrNotFound = errors.New("palette: not found")
)

// Def is a named palette.
type Def struct {
	Name   string
	Colors color.Palette
}

type jsonDef struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// MarshalJSON implements json.Marshaler.
func (d Def) MarshalJSON() ([]byte, error) {
	j := jsonDef{
		Name:   d.Name,
		Colors: make([]string, len(d.Colors)),
	}
	for i, c := range d.Colors {
		j.Colors[i] = Hex(c)
	}
	return json.Marshal(j)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Def) UnmarshalJSON(b []byte) error {
	var j jsonDef
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	p, err := Parse(j.Colors)
	if err != nil {
		return err
	}
	d.Name, d.Colors = j.Name, p
	return nil
}

// Load reads a palette from r. If size is positive the palette must have
// exactly that many colours.
func Load(r io.Reader, size int) (Def, error) {
	var d Def
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Def{}, err
	}
	if size > 0 && len(d.Colors) != size {
		return Def{}, fmt.Errorf("%w: want %d, got %d", ErrWrongSize, size, len(d.Colors))
	}
	if d.Name == "" {
		d.Name = "Imported"
	}
	return d, nil
}

// Save writes d to w.
func Save(w io.Writer, d Def) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(d)
}

// ParseHex parses a colour written as #RRGGBB or #RGB, with or without
// the leading hash.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}

// Parse parses a list of hex colours.
func Parse(colors []string) (color.Palette, error) {
	p := make(color.Palette, len(colors))
	for i, s := range colors {
		c, err := ParseHex(s)
		if err != nil {
			return nil, err
		}
		p[i] = c
	}
	return p, nil
}

// Hex formats c as #RRGGBB, ignoring alpha.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}

// Colors returns the number of colours a codec can address. Direct colour
// codecs have no palette and get a 256 entry greyscale ramp.
func Colors(c *codec.Codec) int {
	if c.Mode == codec.Direct || c.Colors == 0 {
		return 256
	}
	return c.Colors
}

// ForCodec returns the palette to display c with: its own default palette
// if it has one, otherwise the first default palette for its colour count.
func ForCodec(c *codec.Codec) color.Palette {
	if len(c.DefaultPalette) > 0 {
		return c.DefaultPalette
	}
	return Defaults(Colors(c))[0].Colors
}

// Lookup returns the default palette for n colours with the given name,
// ignoring case.
func Lookup(n int, name string) (Def, error) {
	for _, d := range Defaults(n) {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return Def{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func rgb(r, g, b float64) color.RGBA {
	return color.RGBA{uint8(math.Round(r)), uint8(math.Round(g)), uint8(math.Round(b)), 0xff}
}
