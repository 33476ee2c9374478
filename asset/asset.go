// Package asset chains the container, manifest and string-table decoders
// the way CDN blobs are laid out.
package asset

import (
	"github.com/pkg/errors"
	"soulframe-lang/asset/acodec"
	"soulframe-lang/asset/acontainer"
	"soulframe-lang/asset/amanifest"
	"soulframe-lang/asset/astrings"
)

type Decoders struct {
	Container *acontainer.Decoder
	Strings   *astrings.Decoder
}

func NewDecoders(ctx *acodec.Context, dictionary []byte) *Decoders {
	return &Decoders{
		Container: acontainer.NewDecoder(ctx.Block),
		Strings:   astrings.NewDecoder(ctx.Dict, dictionary),
	}
}

func (r *Decoders) DecodeManifest(blob []byte) (*amanifest.Manifest, error) {
	payload, err := r.Container.Decode(blob)
	if err != nil {
		return nil, errors.Wrap(err, "DecodeManifest error")
	}
	manifest, err := amanifest.Decode(payload)
	if err != nil {
		return nil, errors.Wrap(err, "DecodeManifest error")
	}
	return manifest, nil
}

func (r *Decoders) DecodeStrings(blob []byte) (*astrings.Table, error) {
	payload, err := r.Container.Decode(blob)
	if err != nil {
		return nil, errors.Wrap(err, "DecodeStrings error")
	}
	table, err := r.Strings.Decode(payload)
	if err != nil {
		return nil, errors.Wrap(err, "DecodeStrings error")
	}
	return table, nil
}
