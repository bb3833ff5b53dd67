/*
Package image converts between tile collections and ordinary images.

A collection is exported as an image.Paletted whose colour indices are the
tile pixel values, so a sheet saved as PNG or GIF and read back yields the
same tiles. Importing an arbitrary image maps every pixel to the nearest
colour of a palette; if no palette is supplied one is chosen with a median
cut quantizer.
*/
package image

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/xfmoulet/qoi"
)

var (
	// ErrBadSize is returned for images whose sides are not multiples of
	// the tile size
	ErrBadSize = errors.New("image: dimensions must be multiples of 8")
	// ErrUnknownFormat is returned for unsupported output formats
	ErrUnknownFormat = errors.New("image: unknown format")
)

// Format is an output image format.
type Format int

// Supported output formats
const (
	PNG Format = iota
	GIF
	QOI
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case GIF:
		return "gif"
	case QOI:
		return "qoi"
	}
	return "unknown"
}

// FormatFromName picks a format from the extension of a file name.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return PNG, nil
	case ".gif":
		return GIF, nil
	case ".qoi":
		return QOI, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Encode writes m to w in format f. QOI has no palette so paletted images
// are stored as RGBA.
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, m)
	case GIF:
		return gif.Encode(w, m, &gif.Options{NumColors: 256})
	case QOI:
		return qoi.Encode(w, m)
	}
	return fmt.Errorf("%w: %d", ErrUnknownFormat, f)
}
