package tilebravo

import (
	"database/sql"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bodgit/tilebravo/codec"
	"github.com/bodgit/tilebravo/stream"
	_ "github.com/mattn/go-sqlite3"
)

var errBadOffset = errors.New("tilebravo: bad offset")

// ParseOffset parses a byte offset written in decimal or, with a 0x
// prefix, hexadecimal.
func ParseOffset(s string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", errBadOffset, s)
	}
	return int(n), nil
}

// Preset is a known location of graphics inside a particular dump.
type Preset struct {
	Game           string
	Name           string
	BaseOffset     int
	Stride         int
	Codec          string
	TilesPerRow    int
	RowInterleaved bool
}

// Params resolves the preset's codec and returns its addressing
// parameters.
func (p Preset) Params() (stream.Params, error) {
	return stream.NewParams(p.BaseOffset, p.Stride, p.Codec)
}

// PresetDB maps dump checksums to presets.
type PresetDB struct {
	db *sql.DB
}

// NewPresetDB opens, creating if necessary, the SQLite database in file.
func NewPresetDB(file string) (*PresetDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS game (id INTEGER PRIMARY KEY NOT NULL, name STRING NOT NULL UNIQUE)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS checksum (game_id INTEGER NOT NULL, crc TEXT NOT NULL UNIQUE, FOREIGN KEY(game_id) REFERENCES game(id))"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS preset (id INTEGER PRIMARY KEY NOT NULL, game_id INTEGER NOT NULL, name TEXT NOT NULL, base_offset INTEGER NOT NULL, stride INTEGER NOT NULL, codec TEXT NOT NULL, tiles_per_row INTEGER NOT NULL, interleaved INTEGER NOT NULL, UNIQUE(game_id, name), FOREIGN KEY(game_id) REFERENCES game(id))"); err != nil {
		return nil, err
	}

	return &PresetDB{
		db: db,
	}, nil
}

type xmlPresetDB struct {
	XMLName   xml.Name      `xml:"PresetDB"`
	Games     []xmlGame     `xml:"Game"`
	Checksums []xmlChecksum `xml:"GameCk"`
	Presets   []xmlPreset   `xml:"Preset"`
}

type xmlGame struct {
	XMLName xml.Name `xml:"Game"`
	ID      int      `xml:"ID"`
	Name    string   `xml:"Name"`
}

type xmlChecksum struct {
	XMLName  xml.Name `xml:"GameCk"`
	Checksum string   `xml:"Checksum"`
	GameID   int      `xml:"GameID"`
}

type xmlPreset struct {
	XMLName     xml.Name `xml:"Preset"`
	GameID      int      `xml:"GameID"`
	Name        string   `xml:"Name"`
	BaseOffset  string   `xml:"BaseOffset"`
	Stride      string   `xml:"Stride"`
	Codec       string   `xml:"Codec"`
	TilesPerRow int      `xml:"TilesPerRow"`
	Interleaved bool     `xml:"Interleaved"`
}

func (x xmlPreset) preset(game string) (Preset, error) {
	if _, err := codec.Lookup(x.Codec); err != nil {
		return Preset{}, fmt.Errorf("preset %q: %w", x.Name, err)
	}

	var base, stride int
	var err error
	if x.BaseOffset != "" {
		if base, err = ParseOffset(x.BaseOffset); err != nil {
			return Preset{}, fmt.Errorf("preset %q: %w", x.Name, err)
		}
	}
	if x.Stride != "" {
		if stride, err = ParseOffset(x.Stride); err != nil {
			return Preset{}, fmt.Errorf("preset %q: %w", x.Name, err)
		}
	}

	return Preset{
		Game:           game,
		Name:           x.Name,
		BaseOffset:     base,
		Stride:         stride,
		Codec:          x.Codec,
		TilesPerRow:    max(1, x.TilesPerRow),
		RowInterleaved: x.Interleaved,
	}, nil
}

// ImportXML replaces the contents of the database with the XML document
// in file. Every preset is checked before anything is changed.
func (db *PresetDB) ImportXML(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	var xmlDB xmlPresetDB
	if err := xml.Unmarshal(b, &xmlDB); err != nil {
		return err
	}

	presets := make(map[int][]Preset)
	for _, g := range xmlDB.Games {
		for _, x := range xmlDB.Presets {
			if x.GameID != g.ID {
				continue
			}
			p, err := x.preset(g.Name)
			if err != nil {
				return err
			}
			presets[g.ID] = append(presets[g.ID], p)
		}
	}

	if _, err = db.db.Exec("DELETE FROM preset"); err != nil {
		return err
	}

	if _, err = db.db.Exec("DELETE FROM checksum"); err != nil {
		return err
	}

	if _, err = db.db.Exec("DELETE FROM game"); err != nil {
		return err
	}

	for _, g := range xmlDB.Games {
		game, err := db.addGame(g.Name)
		if err != nil {
			return err
		}

		for _, c := range xmlDB.Checksums {
			if g.ID == c.GameID {
				if err := db.addChecksum(game, normalizeCRC(c.Checksum)); err != nil {
					return err
				}
			}
		}

		for _, p := range presets[g.ID] {
			if err := db.addPreset(game, p); err != nil {
				return err
			}
		}
	}

	return nil
}

// Close closes the database.
func (db *PresetDB) Close() error {
	return db.db.Close()
}

func normalizeCRC(crc string) string {
	return fmt.Sprintf("%08s", strings.ToUpper(strings.TrimSpace(crc)))
}

func (db *PresetDB) addGame(name string) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM game WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO game (name) VALUES (?)", name)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

func (db *PresetDB) addChecksum(game int64, crc string) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO checksum (game_id, crc) VALUES (?, ?)", game, crc); err != nil {
		return err
	}
	return nil
}

func (db *PresetDB) addPreset(game int64, p Preset) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO preset (game_id, name, base_offset, stride, codec, tiles_per_row, interleaved) VALUES (?, ?, ?, ?, ?, ?, ?)", game, p.Name, p.BaseOffset, p.Stride, p.Codec, p.TilesPerRow, p.RowInterleaved); err != nil {
		return err
	}
	return nil
}

// AddPreset records p for the game p.Game and associates the game with
// the checksum crc.
func (db *PresetDB) AddPreset(crc string, p Preset) error {
	if _, err := codec.Lookup(p.Codec); err != nil {
		return err
	}
	p.TilesPerRow = max(1, p.TilesPerRow)

	game, err := db.addGame(p.Game)
	if err != nil {
		return err
	}

	if err := db.addChecksum(game, normalizeCRC(crc)); err != nil {
		return err
	}

	return db.addPreset(game, p)
}

// FindPresetsByCRC returns the presets of the game with checksum crc,
// ordered by name. No match is not an error.
func (db *PresetDB) FindPresetsByCRC(crc string) ([]Preset, error) {
	rows, err := db.db.Query("SELECT g.name, p.name, p.base_offset, p.stride, p.codec, p.tiles_per_row, p.interleaved FROM checksum AS c JOIN game AS g ON c.game_id = g.id JOIN preset AS p ON p.game_id = g.id WHERE c.crc = ? ORDER BY p.name", normalizeCRC(crc))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []Preset
	for rows.Next() {
		var p Preset
		if err := rows.Scan(&p.Game, &p.Name, &p.BaseOffset, &p.Stride, &p.Codec, &p.TilesPerRow, &p.RowInterleaved); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}

	return presets, rows.Err()
}
