// Package acodec holds the two decompression engines the asset decoders
// depend on. Decoders only see the BlockDecompressor and DictDecompressor
// interfaces, so tests can swap either engine for a stub.
package acodec

type (
	// BlockDecompressor expands one compressed chunk into exactly size bytes.
	BlockDecompressor interface {
		Decompress(src []byte, size int) ([]byte, error)
	}
	// DictDecompressor expands a stream that was compressed against dict.
	DictDecompressor interface {
		DecompressDict(src []byte, dict []byte) ([]byte, error)
	}

	BlockFunc func(src []byte, size int) ([]byte, error)
	DictFunc  func(src []byte, dict []byte) ([]byte, error)
)

func (f BlockFunc) Decompress(src []byte, size int) ([]byte, error) {
	return f(src, size)
}

func (f DictFunc) DecompressDict(src []byte, dict []byte) ([]byte, error) {
	return f(src, dict)
}

type (
	ErrEngineUnavailable struct {
		Engine string
		Reason string
	}
)

func (r ErrEngineUnavailable) Error() string {
	return r.Engine + " is unavailable: " + r.Reason
}
