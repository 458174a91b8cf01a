package utils

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
)

// LoadFile loads the given file, transparently gunzipping it if its
// extension is ".gz". Everything past that - archive formats, disc
// images - is a Host concern, not the machine's.
func LoadFile(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if filepath.Ext(filename) != ".gz" {
		return io.ReadAll(f)
	}

	decoder, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}

	return io.ReadAll(decoder)
}
