package acontainer

import (
	"fmt"
)

type ChunkKind uint8

const (
	KindRaw         = ChunkKind(0)
	KindCompressedA = ChunkKind(2)
)

func (k ChunkKind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindCompressedA:
		return "compressed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

const (
	Magic = "SHCC"
	// PreambleSize is the magic followed by the u32 chunk count.
	PreambleSize = 4 + 4
	// ChunkHeaderSize is kind, uncompressed size and compressed size.
	ChunkHeaderSize = 1 + 4 + 4
	MaxChunkSize    = 256 << 20
)

type (
	Chunk struct {
		Kind ChunkKind `json:"kind"`
		// Offset is where the chunk header starts in the container.
		Offset           int    `json:"offset"`
		UncompressedSize uint32 `json:"uncompressed_size"`
		CompressedSize   uint32 `json:"compressed_size"`
		Payload          []byte `json:"-"`
	}
	ChunkHeader struct {
		Kind             uint8  `json:"kind"`
		UncompressedSize uint32 `json:"uncompressed_size"`
		CompressedSize   uint32 `json:"compressed_size"`
	}
)
