package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/bodgit/tilebravo"
	"github.com/bodgit/tilebravo/codec"
	"github.com/bodgit/tilebravo/palette"
	"github.com/bodgit/tilebravo/stream"
	"github.com/urfave/cli/v2"
)

const (
	defaultCodec       = "4bpp_planar"
	defaultTilesPerRow = 16
)

var errBadPoint = errors.New("expected COL,ROW")

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func addressFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "codec",
			Aliases: []string{"c"},
			EnvVars: []string{"TILEBRAVO_CODEC"},
			Value:   defaultCodec,
			Usage:   "tile codec id, see \"codecs\"",
		},
		&cli.StringFlag{
			Name:    "offset",
			Aliases: []string{"o"},
			Value:   "0",
			Usage:   "offset of the first tile, 0x prefix for hex",
		},
		&cli.StringFlag{
			Name:  "stride",
			Value: "0",
			Usage: "distance between tiles, raised to the tile size if smaller",
		},
		&cli.IntFlag{
			Name:    "tiles-per-row",
			Aliases: []string{"w"},
			Value:   defaultTilesPerRow,
			Usage:   "width of the tile grid",
		},
		&cli.BoolFlag{
			Name:  "interleaved",
			Usage: "use the row-interleaved layout of 8x16 sprites",
		},
	}
}

func paletteFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "palette",
		Aliases: []string{"p"},
		EnvVars: []string{"TILEBRAVO_PALETTE"},
		Usage:   "default palette name or JSON palette file",
	}
}

func paramsFromContext(c *cli.Context) (stream.Params, error) {
	base, err := tilebravo.ParseOffset(c.String("offset"))
	if err != nil {
		return stream.Params{}, err
	}
	stride, err := tilebravo.ParseOffset(c.String("stride"))
	if err != nil {
		return stream.Params{}, err
	}
	return stream.NewParams(base, stride, c.String("codec"))
}

// loadPalette resolves the palette flag against cd. A name that is an
// existing file is read as JSON, anything else is looked up among the
// default palettes.
func loadPalette(c *cli.Context, cd *codec.Codec) (color.Palette, error) {
	name := c.String("palette")
	if name == "" {
		return palette.ForCodec(cd), nil
	}

	if f, err := os.Open(name); err == nil {
		defer f.Close()
		d, err := palette.Load(f, 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return d.Colors, nil
	}

	d, err := palette.Lookup(palette.Colors(cd), name)
	if err != nil {
		return nil, err
	}
	return d.Colors, nil
}

func parsePoint(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", errBadPoint, s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errBadPoint, s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errBadPoint, s)
	}
	return col, row, nil
}

func requireArgs(c *cli.Context, n int) {
	if c.NArg() < n {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}
}
