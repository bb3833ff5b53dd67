package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vchimishuk/chub/cue"
)

const (
	sectorHeader  = 16
	sectorSize    = 2048
	sectorTrailer = 288
	rawSector     = sectorHeader + sectorSize + sectorTrailer
)

// ErrAudioOnly is returned for a CUE sheet without a data track.
var ErrAudioOnly = errors.New("source: audio-only CDs are not supported")

func firstDataTrack(sheet *cue.Sheet) (string, cue.TrackDataType, error) {
	for _, file := range sheet.Files {
		for _, track := range file.Tracks {
			switch track.DataType {
			case cue.DataTypeMode1_2048, cue.DataTypeMode1_2352:
				return file.Name, track.DataType, nil
			}
		}
	}
	return "", cue.DataTypeAudio, ErrAudioOnly
}

// OpenCue opens the file holding the first data track of the CUE sheet at
// path and returns a reader over its user data, with raw sector framing
// removed.
func OpenCue(path string) (io.ReadCloser, error) {
	sheet, err := cue.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cue sheet: %w", err)
	}

	name, dataType, err := firstDataTrack(sheet)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(filepath.Dir(path), name))
	if err != nil {
		return nil, fmt.Errorf("failed to open track: %w", err)
	}

	if dataType == cue.DataTypeMode1_2048 {
		return f, nil
	}

	return &sectorReader{f: f, r: bufio.NewReaderSize(f, rawSector)}, nil
}

// ReadCue returns the user data of the first data track of the CUE sheet
// at path.
func ReadCue(path string) ([]byte, error) {
	rc, err := OpenCue(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := limitedRead(rc, MaxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read track: %w", err)
	}
	return data, nil
}

// sectorReader strips the header and trailer from each 2352-byte sector.
type sectorReader struct {
	f   *os.File
	r   *bufio.Reader
	buf [rawSector]byte
	pos int
	end int
}

func (s *sectorReader) Read(p []byte) (int, error) {
	if s.pos == s.end {
		n, err := io.ReadFull(s.r, s.buf[:])
		switch {
		case err == io.EOF:
			return 0, io.EOF
		case err == io.ErrUnexpectedEOF:
			if n <= sectorHeader {
				return 0, io.EOF
			}
		case err != nil:
			return 0, err
		}
		s.pos = sectorHeader
		s.end = sectorHeader + sectorSize
		if n < s.end {
			s.end = n
		}
	}

	n := copy(p, s.buf[s.pos:s.end])
	s.pos += n
	return n, nil
}

func (s *sectorReader) Close() error {
	return s.f.Close()
}
