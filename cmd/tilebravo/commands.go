package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/bodgit/tilebravo"
	"github.com/bodgit/tilebravo/codec"
	tileimage "github.com/bodgit/tilebravo/image"
	"github.com/bodgit/tilebravo/palette"
	"github.com/bodgit/tilebravo/render"
	"github.com/bodgit/tilebravo/source"
	"github.com/bodgit/tilebravo/tile"
	"github.com/urfave/cli/v2"
)

var errNoPreset = errors.New("no such preset for this dump")

var codecsCommand = &cli.Command{
	Name:  "codecs",
	Usage: "List the supported tile codecs",
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBPP\tBYTES\tCOLOURS\tMODE")
		for _, cd := range codec.All() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n", cd.ID, cd.Name, cd.BitsPerPixel, cd.BytesPerTile, palette.Colors(cd), cd.Mode)
		}
		return w.Flush()
	},
}

var palettesCommand = &cli.Command{
	Name:  "palettes",
	Usage: "List the default palettes for a codec",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "codec",
			Aliases: []string{"c"},
			EnvVars: []string{"TILEBRAVO_CODEC"},
			Value:   defaultCodec,
			Usage:   "tile codec id",
		},
		&cli.StringFlag{
			Name:  "save",
			Usage: "write the named palette to stdout as JSON",
		},
	},
	Action: func(c *cli.Context) error {
		cd, err := codec.Lookup(c.String("codec"))
		if err != nil {
			return cli.Exit(err, 1)
		}
		n := palette.Colors(cd)

		if name := c.String("save"); name != "" {
			d, err := palette.Lookup(n, name)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if err := palette.Save(os.Stdout, d); err != nil {
				return cli.Exit(err, 1)
			}
			return nil
		}

		for _, d := range palette.Defaults(n) {
			colors := make([]string, 0, min(len(d.Colors), 16))
			for _, col := range d.Colors[:min(len(d.Colors), 16)] {
				colors = append(colors, palette.Hex(col))
			}
			if len(d.Colors) > 16 {
				colors = append(colors, "...")
			}
			fmt.Printf("%-20s %s\n", d.Name, strings.Join(colors, " "))
		}
		return nil
	},
}

func findPreset(c *cli.Context, file, name string) (tilebravo.Preset, error) {
	tb, err := tilebravo.New(c.String("db"), newLogger(c))
	if err != nil {
		return tilebravo.Preset{}, err
	}
	defer tb.Close()

	crc, err := tilebravo.ChecksumFile(file)
	if err != nil {
		return tilebravo.Preset{}, err
	}

	presets, err := tb.DB().FindPresetsByCRC(crc)
	if err != nil {
		return tilebravo.Preset{}, err
	}
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return tilebravo.Preset{}, fmt.Errorf("%w: %q (CRC %s)", errNoPreset, name, crc)
}

var decodeCommand = &cli.Command{
	Name:      "decode",
	Usage:     "Render the tiles of a dump to an image",
	ArgsUsage: "FILE",
	Flags: append(addressFlags(),
		paletteFlag(),
		&cli.StringFlag{
			Name:  "output",
			Usage: "image to write, format taken from the extension",
		},
		&cli.IntFlag{
			Name:  "zoom",
			Value: 1,
			Usage: "scale factor",
		},
		&cli.IntFlag{
			Name:  "count",
			Usage: "grow or truncate to this many tiles",
		},
		&cli.StringFlag{
			Name:  "preset",
			Usage: "use the named preset recorded for this dump",
		},
		&cli.BoolFlag{
			Name:  "grid",
			Usage: "draw tile grid lines, rendering one page at a time",
		},
		&cli.BoolFlag{
			Name:  "pixel-grid",
			Usage: "also draw pixel grid lines, implies --grid",
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "page to render with --grid when the dump is too large for one image",
		},
	),
	Action: func(c *cli.Context) error {
		requireArgs(c, 1)
		logger := newLogger(c)
		file := c.Args().First()

		data, name, err := source.Load(file)
		if err != nil {
			return cli.Exit(err, 1)
		}

		p, err := paramsFromContext(c)
		if err != nil {
			return cli.Exit(err, 1)
		}
		tilesPerRow, interleaved := c.Int("tiles-per-row"), c.Bool("interleaved")

		if preset := c.String("preset"); preset != "" {
			pr, err := findPreset(c, file, preset)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if p, err = pr.Params(); err != nil {
				return cli.Exit(err, 1)
			}
			tilesPerRow, interleaved = pr.TilesPerRow, pr.RowInterleaved
		}

		d, err := tilebravo.Open(name, data, p, tilesPerRow)
		if err != nil {
			return cli.Exit(err, 1)
		}
		if d.Truncated() {
			logger.Printf("\"%s\" ends part way through the last tile\n", file)
		}

		if n := c.Int("count"); n > 0 {
			if d.WouldDiscard(n) {
				logger.Printf("Dropping non-blank tiles past %d\n", n)
			}
			d.Resize(n)
		}

		pal, err := loadPalette(c, p.Codec)
		if err != nil {
			return cli.Exit(err, 1)
		}

		out := c.String("output")
		if out == "" {
			out = strings.TrimSuffix(file, filepath.Ext(file)) + ".png"
		}
		format, err := tileimage.FormatFromName(out)
		if err != nil {
			return cli.Exit(err, 1)
		}

		f, err := os.Create(out)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer f.Close()

		var m image.Image
		if c.Bool("grid") || c.Bool("pixel-grid") {
			m = renderGrid(d, pal, render.Layout{
				PixelSize:      max(1, c.Int("zoom")),
				RowInterleaved: interleaved,
				TileGrid:       true,
				PixelGrid:      c.Bool("pixel-grid"),
			}, c.Int("page"), logger)
		} else {
			m = tileimage.Scale(d.Image(pal, interleaved), c.Int("zoom"))
		}

		if err := tileimage.Encode(f, m, format); err != nil {
			return cli.Exit(err, 1)
		}

		logger.Printf("Wrote %d tiles to \"%s\"\n", d.Len(), out)
		return nil
	},
}

// renderGrid paints one page of d through the render engine.
func renderGrid(d *tilebravo.Document, p color.Palette, l render.Layout, page int, logger *log.Logger, opts ...render.Option) image.Image {
	e := d.NewEngine(p, l, opts...)
	if e.Paged() {
		e.SetPage(page)
		logger.Printf("Rendering page %d of %d\n", e.Page()+1, e.Pages())
	}
	e.Frame()
	return e.Surface()
}

var encodeCommand = &cli.Command{
	Name:      "encode",
	Usage:     "Encode the tiles of an image, optionally into an existing dump",
	ArgsUsage: "IMAGE",
	Flags: append(addressFlags(),
		paletteFlag(),
		&cli.StringFlag{
			Name:     "output",
			Required: true,
			Usage:    "file to write",
		},
		&cli.StringFlag{
			Name:  "into",
			Usage: "dump to write the tiles into, keeping every other byte",
		},
		&cli.StringFlag{
			Name:  "at",
			Usage: "COL,ROW tile position to paste the image at, with --into",
		},
		&cli.BoolFlag{
			Name:  "packed",
			Usage: "write only the pasted tiles, packed together",
		},
	),
	Action: func(c *cli.Context) error {
		requireArgs(c, 1)
		logger := newLogger(c)
		file := c.Args().First()

		p, err := paramsFromContext(c)
		if err != nil {
			return cli.Exit(err, 1)
		}

		// Without an explicit palette, images keep their own indices or
		// are quantized
		o := tileimage.Options{
			Colors:         palette.Colors(p.Codec),
			RowInterleaved: c.Bool("interleaved"),
		}
		if c.String("palette") != "" {
			if o.Palette, err = loadPalette(c, p.Codec); err != nil {
				return cli.Exit(err, 1)
			}
		}

		f, err := os.Open(file)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer f.Close()

		sheet, err := tileimage.Decode(f, o)
		if err != nil {
			return cli.Exit(err, 1)
		}

		var d *tilebravo.Document
		if into := c.String("into"); into != "" {
			data, name, err := source.Load(into)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if d, err = tilebravo.Open(name, data, p, c.Int("tiles-per-row")); err != nil {
				return cli.Exit(err, 1)
			}
			if at := c.String("at"); at != "" {
				col, row, err := parsePoint(at)
				if err != nil {
					return cli.Exit(err, 1)
				}
				d.Select(image.Rect(col, row, col+sheet.TilesPerRow, row+sheet.Rows))
			}
		} else {
			if d, err = tilebravo.NewBlank(file, len(sheet.Tiles), p, sheet.TilesPerRow); err != nil {
				return cli.Exit(err, 1)
			}
		}

		if d.ImportImage(sheet) {
			logger.Printf("Pasted %dx%d tiles at %v\n", sheet.TilesPerRow, sheet.Rows, d.Selection().Min)
		}

		var b []byte
		if c.Bool("packed") {
			b = d.ExportSelection()
		} else if b, err = d.Export(); err != nil {
			return cli.Exit(err, 1)
		}

		if err := os.WriteFile(c.String("output"), b, 0o644); err != nil {
			return cli.Exit(err, 1)
		}

		logger.Printf("Wrote %d bytes to \"%s\"\n", len(b), c.String("output"))
		return nil
	},
}

func printStatus(d *tilebravo.Document, label string, col, row, x, y int) {
	tpr := d.TilesPerRow()
	s := d.Status(render.Hit{Index: tile.Index(col, row, tpr), Col: col, Row: row, X: x, Y: y})
	fmt.Printf("%-12s %s\n", label+":", s)
}

var inspectCommand = &cli.Command{
	Name:      "inspect",
	Usage:     "Show how a dump decodes and where tiles live",
	ArgsUsage: "FILE",
	Flags: append(addressFlags(),
		&cli.StringSliceFlag{
			Name:  "offset-of",
			Usage: "byte offset to locate the tile of",
		},
		&cli.StringSliceFlag{
			Name:  "pixel",
			Usage: "X,Y absolute pixel of the tile grid to describe",
		},
	),
	Action: func(c *cli.Context) error {
		requireArgs(c, 1)
		file := c.Args().First()

		data, name, err := source.Load(file)
		if err != nil {
			return cli.Exit(err, 1)
		}

		p, err := paramsFromContext(c)
		if err != nil {
			return cli.Exit(err, 1)
		}

		d, err := tilebravo.Open(name, data, p, c.Int("tiles-per-row"))
		if err != nil {
			return cli.Exit(err, 1)
		}

		crc, err := tilebravo.ChecksumFile(file)
		if err != nil {
			return cli.Exit(err, 1)
		}

		fmt.Printf("%-12s %s\n", "File:", name)
		fmt.Printf("%-12s %d\n", "Size:", len(data))
		fmt.Printf("%-12s %s\n", "CRC:", crc)
		fmt.Printf("%-12s %s\n", "Codec:", p.Codec)
		fmt.Printf("%-12s %d\n", "Step:", p.Step())
		fmt.Printf("%-12s %d\n", "Tiles:", d.Len())
		fmt.Printf("%-12s %t\n", "Truncated:", d.Truncated())

		for _, s := range c.StringSlice("offset-of") {
			ofs, err := tilebravo.ParseOffset(s)
			if err != nil {
				return cli.Exit(err, 1)
			}
			col, row := tile.Position(d.GoToOffset(ofs), d.TilesPerRow())
			printStatus(d, s, col, row, 0, 0)
		}

		for _, s := range c.StringSlice("pixel") {
			x, y, err := parsePoint(s)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if x < 0 || y < 0 || x >= d.TilesPerRow()*tile.Width {
				fmt.Printf("%-12s %s\n", s+":", "outside the tile grid")
				continue
			}
			printStatus(d, s, x/tile.Width, y/tile.Height, x%tile.Width, y%tile.Height)
		}

		if _, err := os.Stat(c.String("db")); err != nil {
			return nil
		}

		tb, err := tilebravo.New(c.String("db"), newLogger(c))
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer tb.Close()

		presets, err := tb.DB().FindPresetsByCRC(crc)
		if err != nil {
			return cli.Exit(err, 1)
		}
		for _, pr := range presets {
			fmt.Printf("%-12s %s: %s at 0x%X, stride %d, %d per row\n", "Preset:", pr.Name, pr.Codec, pr.BaseOffset, pr.Stride, pr.TilesPerRow)
		}

		return nil
	},
}

var batchCommand = &cli.Command{
	Name:      "batch",
	Usage:     "Write a sheet image next to every dump under a directory",
	ArgsUsage: "DIRECTORY",
	Flags: append(addressFlags(),
		paletteFlag(),
		&cli.StringFlag{
			Name:  "format",
			Value: "png",
			Usage: "png, gif or qoi",
		},
		&cli.IntFlag{
			Name:  "zoom",
			Value: 1,
			Usage: "scale factor",
		},
		&cli.IntFlag{
			Name:  "workers",
			Value: 10,
			Usage: "number of dumps processed at once",
		},
	),
	Action: func(c *cli.Context) error {
		requireArgs(c, 1)

		p, err := paramsFromContext(c)
		if err != nil {
			return cli.Exit(err, 1)
		}

		format, err := tileimage.FormatFromName("sheet." + c.String("format"))
		if err != nil {
			return cli.Exit(err, 1)
		}

		o := tilebravo.BatchOptions{
			Params:         p,
			TilesPerRow:    c.Int("tiles-per-row"),
			RowInterleaved: c.Bool("interleaved"),
			Format:         format,
			Zoom:           c.Int("zoom"),
			Workers:        c.Int("workers"),
		}
		if c.String("palette") != "" {
			if o.Palette, err = loadPalette(c, p.Codec); err != nil {
				return cli.Exit(err, 1)
			}
		}

		tb, err := tilebravo.New(c.String("db"), newLogger(c))
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer tb.Close()

		if err := tb.Batch(c.Args().First(), o); err != nil {
			return cli.Exit(err, 1)
		}

		return nil
	},
}

var presetsCommand = &cli.Command{
	Name:  "presets",
	Usage: "Manage the preset database",
	Subcommands: []*cli.Command{
		{
			Name:      "import",
			Usage:     "Replace the database with an XML preset list",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				requireArgs(c, 1)

				tb, err := tilebravo.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer tb.Close()

				if err := tb.DB().ImportXML(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "find",
			Usage:     "List the presets recorded for a dump",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				requireArgs(c, 1)

				tb, err := tilebravo.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer tb.Close()

				crc, err := tilebravo.ChecksumFile(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				presets, err := tb.DB().FindPresetsByCRC(crc)
				if err != nil {
					return cli.Exit(err, 1)
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
				fmt.Fprintln(w, "GAME\tPRESET\tCODEC\tOFFSET\tSTRIDE\tPER ROW\tINTERLEAVED")
				for _, p := range presets {
					fmt.Fprintf(w, "%s\t%s\t%s\t0x%X\t%d\t%d\t%t\n", p.Game, p.Name, p.Codec, p.BaseOffset, p.Stride, p.TilesPerRow, p.RowInterleaved)
				}
				return w.Flush()
			},
		},
		{
			Name:      "add",
			Usage:     "Record the current parameters as a preset for a dump",
			ArgsUsage: "FILE",
			Flags: append(addressFlags(),
				&cli.StringFlag{
					Name:     "game",
					Required: true,
					Usage:    "name of the game",
				},
				&cli.StringFlag{
					Name:     "name",
					Required: true,
					Usage:    "name of the preset",
				},
			),
			Action: func(c *cli.Context) error {
				requireArgs(c, 1)

				p, err := paramsFromContext(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				tb, err := tilebravo.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer tb.Close()

				crc, err := tilebravo.ChecksumFile(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := tb.DB().AddPreset(crc, tilebravo.Preset{
					Game:           c.String("game"),
					Name:           c.String("name"),
					BaseOffset:     p.BaseOffset,
					Stride:         p.Stride,
					Codec:          p.Codec.ID,
					TilesPerRow:    c.Int("tiles-per-row"),
					RowInterleaved: c.Bool("interleaved"),
				}); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	},
}
