package acodec

import (
	"encoding/binary"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

const (
	zstdDictMagic = 0xEC30A437
	// MaxStreamSize bounds the memory a single dictionary stream may expand to.
	MaxStreamSize = 256 << 20
)

// Zstd decodes dictionary-compressed streams. One decoder is kept per
// distinct dictionary.
type Zstd struct {
	mu       sync.Mutex
	decoders map[[32]byte]*zstd.Decoder
}

func NewZstd() *Zstd {
	return &Zstd{
		decoders: map[[32]byte]*zstd.Decoder{},
	}
}

// IsFormattedDict reports whether dict is a trained zstd dictionary rather
// than raw content.
func IsFormattedDict(dict []byte) bool {
	return len(dict) >= 8 && binary.LittleEndian.Uint32(dict) == zstdDictMagic
}

func (r *Zstd) decoder(dict []byte) (*zstd.Decoder, error) {
	digest := blake3.Sum256(dict)
	if decoder, ok := r.decoders[digest]; ok {
		return decoder, nil
	}

	options := []zstd.DOption{
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(MaxStreamSize),
	}
	switch {
	case len(dict) == 0:
	case IsFormattedDict(dict):
		options = append(options, zstd.WithDecoderDicts(dict))
	default:
		options = append(options, zstd.WithDecoderDictRaw(0, dict))
	}
	decoder, err := zstd.NewReader(nil, options...)
	if err != nil {
		return nil, errors.Wrap(err, "Zstd.decoder error")
	}
	r.decoders[digest] = decoder
	return decoder, nil
}

func (r *Zstd) DecompressDict(src []byte, dict []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	decoder, err := r.decoder(dict)
	if err != nil {
		return nil, err
	}
	bs, err := decoder.DecodeAll(src, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Zstd.DecompressDict error")
	}
	return bs, nil
}

func (r *Zstd) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for digest, decoder := range r.decoders {
		decoder.Close()
		delete(r.decoders, digest)
	}
	return nil
}
