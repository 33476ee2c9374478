package aoutput

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Parse reads a serialized document back.
func Parse(bs []byte, format Format) (*Document, error) {
	document := Document{}
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(bs, &document)
	case FormatYAML:
		err = yaml.Unmarshal(bs, &document)
	case FormatCBOR:
		err = cbor.Unmarshal(bs, &document)
	default:
		return nil, errors.WithStack(ErrUnknownFormat{Format: string(format)})
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Parse error reading %s document", format)
	}
	return &document, nil
}
