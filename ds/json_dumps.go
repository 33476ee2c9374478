package ds

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// DumpJSON renders t as indented JSON followed by a newline.
func DumpJSON[T any](t T) (string, error) {
	tBytes, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "DumpJSON error")
	}

	return string(tBytes) + "\n", nil
}
