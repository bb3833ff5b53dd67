// Package source loads ROM dumps from disk. Plain files are read as is;
// zip, 7z, gzip, zstd and RAR containers are unpacked and the largest
// member is returned; CUE sheets resolve to the data of their first data
// track with any raw sector framing removed.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxSize is the largest dump that will be loaded.
const MaxSize = 64 << 20

var (
	// ErrUnsupported is returned for a container that cannot be read.
	ErrUnsupported = errors.New("source: unsupported file format")
	// ErrNoData is returned when a container holds no regular file.
	ErrNoData = errors.New("source: no data found")
	// ErrTooLarge is returned when the content exceeds MaxSize.
	ErrTooLarge = errors.New("source: file exceeds maximum size")
)

var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicZstd   = []byte{0x28, 0xB5, 0x2F, 0xFD}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21}
)

// Format identifies how a file is read.
type Format int

// Supported formats.
const (
	Raw Format = iota
	Zip
	SevenZip
	Gzip
	Zstd
	RAR
	Cue
)

var formatNames = map[Format]string{
	Raw:      "raw",
	Zip:      "zip",
	SevenZip: "7z",
	Gzip:     "gzip",
	Zstd:     "zstd",
	RAR:      "rar",
	Cue:      "cue",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "unknown"
}

// Detect returns the format of a file given its first bytes and its name.
// Magic bytes win; the extension is only consulted when they are
// inconclusive.
func Detect(header []byte, name string) Format {
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return Zip
	case bytes.HasPrefix(header, magic7z):
		return SevenZip
	case bytes.HasPrefix(header, magicGzip):
		return Gzip
	case bytes.HasPrefix(header, magicZstd):
		return Zstd
	case bytes.HasPrefix(header, magicRAR):
		return RAR
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".cue":
		return Cue
	case ".zip":
		return Zip
	case ".7z":
		return SevenZip
	case ".gz":
		return Gzip
	case ".zst":
		return Zstd
	case ".rar":
		return RAR
	}

	return Raw
}

// Load reads the dump at path, unpacking it if it is a container. It
// returns the data and the name of the file it came from.
func Load(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	format := Detect(header, path)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("failed to seek file: %w", err)
	}

	switch format {
	case Zip:
		return fromZip(path)
	case SevenZip:
		return from7z(path)
	case Gzip:
		return fromGzip(f, path)
	case Zstd:
		return fromZstd(f, path)
	case RAR:
		return fromRAR(path)
	case Cue:
		data, err := ReadCue(path)
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(path), nil
	}

	data, err := limitedRead(f, MaxSize)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return data, filepath.Base(path), nil
}

func limitedRead(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
