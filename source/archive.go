package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/nwaples/rardecode/v2"
)

func fromZip(path string) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	var best *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if best == nil || f.UncompressedSize64 > best.UncompressedSize64 {
			best = f
		}
	}
	if best == nil {
		return nil, "", ErrNoData
	}

	rc, err := best.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", best.Name, err)
	}
	defer rc.Close()

	data, err := limitedRead(rc, MaxSize)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", best.Name, err)
	}
	return data, filepath.Base(best.Name), nil
}

func from7z(path string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()

	var best *sevenzip.File
	for _, f := range r.File {
		info := f.FileInfo()
		if info.IsDir() {
			continue
		}
		if best == nil || info.Size() > best.FileInfo().Size() {
			best = f
		}
	}
	if best == nil {
		return nil, "", ErrNoData
	}

	rc, err := best.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", best.Name, err)
	}
	defer rc.Close()

	data, err := limitedRead(rc, MaxSize)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", best.Name, err)
	}
	return data, filepath.Base(best.Name), nil
}

func fromGzip(f *os.File, path string) ([]byte, string, error) {
	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gzip: %w", err)
	}
	defer gr.Close()

	data, err := limitedRead(gr, MaxSize)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress gzip: %w", err)
	}

	name := gr.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return data, filepath.Base(name), nil
}

func fromZstd(f *os.File, path string) ([]byte, string, error) {
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zstd: %w", err)
	}
	defer zr.Close()

	data, err := limitedRead(zr, MaxSize)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress zstd: %w", err)
	}
	return data, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), nil
}

// RAR archives are solid streams, so the largest member cannot be picked
// without reading it. The first regular file is used instead.
func fromRAR(path string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}

		if header.IsDir {
			continue
		}

		data, err := limitedRead(r, MaxSize)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}

	return nil, "", ErrNoData
}
