/*
Package tilebravo is a library for viewing and editing the graphics tiles
stored in ROM dumps.
*/
package tilebravo

import (
	"io"
	"log"
)

// TileBravo bundles the preset database and logger used by the batch
// operations.
type TileBravo struct {
	db     *PresetDB
	logger *log.Logger
}

// New opens the preset database in file and returns a TileBravo using it.
// An empty file name means no database, in which case every dump is
// decoded with the parameters passed in.
func New(file string, logger *log.Logger) (*TileBravo, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	t := &TileBravo{
		logger: logger,
	}
	if file == "" {
		return t, nil
	}

	db, err := NewPresetDB(file)
	if err != nil {
		return nil, err
	}
	t.db = db

	return t, nil
}

// DB returns the preset database, which may be nil.
func (t *TileBravo) DB() *PresetDB {
	return t.db
}

// Close closes the preset database.
func (t *TileBravo) Close() error {
	if t.db == nil {
		return nil
	}
	return t.db.Close()
}
