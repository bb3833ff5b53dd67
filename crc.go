package tilebravo

import (
	"fmt"
	"hash/crc32"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/tilebravo/source"
)

const sectorSize = 2048

func formatCRC(h []byte) string {
	return fmt.Sprintf("%.*X", crc32.Size<<1, h)
}

// Checksum returns the CRC-32 of a cartridge dump, skipping the size &
// 0xfff bytes of any copier header so headered and clean dumps match.
// Dumps smaller than 4 KiB have no room for a header and are hashed whole.
func Checksum(data []byte) string {
	var skip int
	if len(data) > 0xfff {
		skip = len(data) & 0xfff
	}
	h := crc32.NewIEEE()
	_, _ = h.Write(data[skip:])
	return formatCRC(h.Sum(nil))
}

// cdChecksum returns the CRC-32 of the first sector of a CD data track.
func cdChecksum(r io.Reader) (string, error) {
	h := crc32.NewIEEE()
	if _, err := io.CopyN(h, r, sectorSize); err != nil {
		return "", err
	}
	return formatCRC(h.Sum(nil)), nil
}

func crcCueFile(file string) (string, error) {
	rc, err := source.OpenCue(file)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return cdChecksum(rc)
}

// ChecksumFile returns the checksum of the dump in file, unpacking it if
// it is a container. CUE sheets are checksummed by their data track.
func ChecksumFile(file string) (string, error) {
	if strings.EqualFold(filepath.Ext(file), ".cue") {
		return crcCueFile(file)
	}

	data, _, err := source.Load(file)
	if err != nil {
		return "", err
	}
	return Checksum(data), nil
}
