// Package afixture builds in-memory blobs in the CDN layouts for tests.
package afixture

import (
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"soulframe-lang/asset/acontainer"
	"soulframe-lang/asset/amanifest"
	"soulframe-lang/asset/astrings"
)

// RawContainer frames payload as raw chunks of at most chunkSize bytes.
func RawContainer(payload []byte, chunkSize int) []byte {
	chunks := make([]acontainer.Chunk, 0)
	for start := 0; start < len(payload); start += chunkSize {
		end := start + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunks = append(chunks, acontainer.RawChunk(payload[start:end]))
	}
	return acontainer.Encode(chunks)
}

func ManifestPayload(entries ...amanifest.Entry) ([]byte, error) {
	manifest, err := amanifest.New(entries)
	if err != nil {
		return nil, errors.Wrap(err, "ManifestPayload error")
	}
	return amanifest.Encode(manifest), nil
}

// ManifestBlob is a manifest wrapped in a container, as served by the CDN.
func ManifestBlob(entries ...amanifest.Entry) ([]byte, error) {
	payload, err := ManifestPayload(entries...)
	if err != nil {
		return nil, err
	}
	return RawContainer(payload, 64), nil
}

// CompressStream compresses stream against a raw-content dictionary.
func CompressStream(stream []byte, dict []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderDictRaw(0, dict))
	if err != nil {
		return nil, errors.Wrap(err, "CompressStream error")
	}
	defer encoder.Close()
	return encoder.EncodeAll(stream, nil), nil
}

func StringsPayload(records []astrings.Record, dict []byte) ([]byte, error) {
	stream := astrings.EncodeRecords(records)
	compressed, err := CompressStream(stream, dict)
	if err != nil {
		return nil, err
	}
	bs := astrings.EncodeHeader(len(records), len(stream))
	return append(bs, compressed...), nil
}

// LanguagesBlob is a full Languages.bin: string table in a raw container.
func LanguagesBlob(records []astrings.Record, dict []byte) ([]byte, error) {
	payload, err := StringsPayload(records, dict)
	if err != nil {
		return nil, err
	}
	return RawContainer(payload, 128), nil
}
