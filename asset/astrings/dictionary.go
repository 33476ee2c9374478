package astrings

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
)

//go:embed dictionary.txt
var defaultDictionary []byte

func DefaultDictionary() []byte {
	dict := make([]byte, len(defaultDictionary))
	copy(dict, defaultDictionary)
	return dict
}

// LoadDictionary reads a dictionary file, or returns the built-in one when
// path is empty.
func LoadDictionary(path string) ([]byte, error) {
	if path == "" {
		return DefaultDictionary(), nil
	}
	dict, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "LoadDictionary error reading %q", path)
	}
	if len(dict) == 0 {
		return nil, errors.Errorf("LoadDictionary error: %q is empty", path)
	}
	return dict, nil
}
