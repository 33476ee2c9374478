package aoutput

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Format string

const (
	FormatJSON = Format("json")
	FormatYAML = Format("yaml")
	FormatCBOR = Format("cbor")

	OrderKey   = "__order"
	StringsKey = "strings"
)

var Formats = []Format{FormatJSON, FormatYAML, FormatCBOR}

type (
	// Document is the serialized shape read back from any format. Order is
	// the authoritative key sequence.
	Document struct {
		Order   []string          `json:"__order" yaml:"__order" cbor:"__order"`
		Strings map[string]string `json:"strings" yaml:"strings" cbor:"strings"`
	}
	ErrUnknownFormat struct {
		Format string
	}
)

func (r ErrUnknownFormat) Error() string {
	return "unknown output format " + strconv.Quote(r.Format)
}

func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatJSON, FormatYAML, FormatCBOR:
		return format, nil
	case "":
		return FormatJSON, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.WithStack(ErrUnknownFormat{Format: s})
}

// Extension is the file extension for format, without the dot.
func Extension(format Format) string {
	return string(format)
}
