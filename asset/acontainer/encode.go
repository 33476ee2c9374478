package acontainer

import (
	"soulframe-lang/asset/lbytes"
)

func EncodeHeader(kind ChunkKind, uncompressedSize int, compressedSize int) []byte {
	bs := make([]byte, 0, ChunkHeaderSize)
	bs = append(bs, byte(kind))
	bs = append(bs, lbytes.EncodeValueInt(uncompressedSize)...)
	bs = append(bs, lbytes.EncodeValueInt(compressedSize)...)
	return bs
}

func EncodeChunk(chunk Chunk) []byte {
	bs := EncodeHeader(chunk.Kind, int(chunk.UncompressedSize), len(chunk.Payload))
	return append(bs, chunk.Payload...)
}

// RawChunk wraps bs as a pass-through chunk.
func RawChunk(bs []byte) Chunk {
	return Chunk{
		Kind:             KindRaw,
		UncompressedSize: uint32(len(bs)),
		CompressedSize:   uint32(len(bs)),
		Payload:          bs,
	}
}

func Encode(chunks []Chunk) []byte {
	bs := []byte(Magic)
	bs = append(bs, lbytes.EncodeValueInt(len(chunks))...)
	for _, chunk := range chunks {
		bs = append(bs, EncodeChunk(chunk)...)
	}
	return bs
}
