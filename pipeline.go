package tilebravo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tileimage "github.com/bodgit/tilebravo/image"
	"github.com/bodgit/tilebravo/palette"
	"github.com/bodgit/tilebravo/source"
	"github.com/bodgit/tilebravo/stream"
)

const defaultWorkers = 10

// BatchOptions control how Batch turns dumps into sheets.
type BatchOptions struct {
	// Params and TilesPerRow are used for dumps with no preset
	Params      stream.Params
	TilesPerRow int
	// Palette defaults to the first default palette for the codec
	Palette        color.Palette
	RowInterleaved bool
	Format         tileimage.Format
	// Zoom enlarges each sheet
	Zoom    int
	Workers int
}

var dumpExtensions = map[string]bool{
	".bin": true, ".rom": true, ".md": true, ".gen": true, ".smd": true,
	".32x": true, ".sms": true, ".gg": true, ".sg": true, ".pce": true,
	".nes": true, ".sfc": true, ".smc": true, ".gb": true, ".gbc": true,
	".gba": true, ".ngp": true, ".ws": true, ".zip": true, ".7z": true,
	".gz": true, ".zst": true, ".rar": true, ".cue": true,
}

func containsCue(dir string) (bool, error) {
	d, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer d.Close()

	info, err := d.Stat()
	if err != nil {
		return false, err
	}

	if !info.IsDir() {
		return false, errors.New("not a directory")
	}

	files, err := d.Readdirnames(0)
	if err != nil {
		return false, err
	}

	for _, file := range files {
		if strings.EqualFold(filepath.Ext(file), ".cue") {
			return true, nil
		}
	}

	return false, nil
}

func (t *TileBravo) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || info.Size() > source.MaxSize {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(file))
			if !dumpExtensions[ext] {
				return nil
			}

			// A .bin next to a .cue is a CD track, reached through the sheet
			if ext == ".bin" {
				hasCue, err := containsCue(filepath.Dir(file))
				if err != nil {
					return err
				}
				if hasCue {
					return nil
				}
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

type sheetJob struct {
	name        string
	params      stream.Params
	tilesPerRow int
	interleaved bool
}

func (t *TileBravo) jobsFor(file string, data []byte, o BatchOptions) ([]sheetJob, error) {
	fallback := []sheetJob{{
		params:      o.Params,
		tilesPerRow: o.TilesPerRow,
		interleaved: o.RowInterleaved,
	}}

	if t.db == nil {
		return fallback, nil
	}

	crc := Checksum(data)
	if strings.EqualFold(filepath.Ext(file), ".cue") {
		var err error
		if crc, err = cdChecksum(bytes.NewReader(data)); err != nil {
			t.logger.Printf("No checksum for \"%s\": %v\n", file, err)
			return fallback, nil
		}
	}

	presets, err := t.db.FindPresetsByCRC(crc)
	if err != nil {
		return nil, err
	}
	if len(presets) == 0 {
		t.logger.Printf("No match for \"%s\", with CRC \"%s\"\n", file, crc)
		return fallback, nil
	}

	jobs := make([]sheetJob, 0, len(presets))
	for _, p := range presets {
		params, err := p.Params()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, sheetJob{
			name:        p.Name,
			params:      params,
			tilesPerRow: p.TilesPerRow,
			interleaved: p.RowInterleaved,
		})
	}
	return jobs, nil
}

func sheetName(file, preset string, f tileimage.Format) string {
	base := strings.TrimSuffix(file, filepath.Ext(file))
	if preset != "" {
		base += "-" + strings.ReplaceAll(preset, string(os.PathSeparator), "_")
	}
	return base + "." + f.String()
}

func (t *TileBravo) writeSheet(file string, data []byte, j sheetJob, o BatchOptions) error {
	tiles, err := stream.Decode(data, j.params)
	if err != nil {
		return err
	}

	p := o.Palette
	if p == nil {
		p = palette.ForCodec(j.params.Codec)
	}

	m := tileimage.Scale(tileimage.Paletted(tiles, j.tilesPerRow, p, j.interleaved), o.Zoom)

	out := sheetName(file, j.name, o.Format)
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tileimage.Encode(f, m, o.Format); err != nil {
		return fmt.Errorf("%s: %w", out, err)
	}

	t.logger.Printf("Wrote %d tiles to \"%s\"\n", len(tiles), out)
	return nil
}

func (t *TileBravo) fileWorker(ctx context.Context, in <-chan string, o BatchOptions) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			data, _, err := source.Load(file)
			switch {
			case errors.Is(err, source.ErrNoData), errors.Is(err, source.ErrAudioOnly), errors.Is(err, source.ErrTooLarge):
				t.logger.Printf("Skipping \"%s\": %v\n", file, err)
				continue
			case err != nil:
				errc <- fmt.Errorf("%s: %w", file, err)
				return
			}

			jobs, err := t.jobsFor(file, data, o)
			if err != nil {
				errc <- err
				return
			}

			for _, j := range jobs {
				if err := t.writeSheet(file, data, j, o); err != nil {
					errc <- err
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Batch walks path and writes a sheet image next to every dump it finds,
// one per preset when the dump's checksum is in the database, otherwise
// one decoded with o.Params.
func (t *TileBravo) Batch(path string, o BatchOptions) error {
	if o.Params.Codec == nil {
		return stream.ErrNoCodec
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := t.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	workers := o.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	for i := 0; i < workers; i++ {
		errc, err := t.fileWorker(ctx, files, o)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
