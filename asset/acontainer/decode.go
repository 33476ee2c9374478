package acontainer

import (
	"github.com/pkg/errors"
	"soulframe-lang/asset/acodec"
	"soulframe-lang/asset/aerr"
	"soulframe-lang/asset/lbytes"
)

func DecodeHeader(reader *lbytes.Reader) (*ChunkHeader, error) {
	instructions := []lbytes.Instruction{
		{Key: "kind", ReadFunction: lbytes.CreateU8ReadFunction(reader)},
		{Key: "uncompressed_size", ReadFunction: lbytes.CreateU32ReadFunction(reader)},
		{Key: "compressed_size", ReadFunction: lbytes.CreateU32ReadFunction(reader)},
	}
	header, err := lbytes.ExecuteInstructions[ChunkHeader](instructions)
	if err != nil {
		return nil, errors.Wrap(err, "acontainer.DecodeHeader error")
	}
	return header, nil
}

func decodePreamble(reader *lbytes.Reader) (uint32, error) {
	magic, err := reader.ReadString(len(Magic))
	if err != nil {
		return 0, aerr.New(aerr.ErrTruncatedContainer, "acontainer.ReadChunks", 0, "reading magic").
			WithCause(err)
	}
	if magic != Magic {
		return 0, aerr.New(aerr.ErrUnsupportedFormat, "acontainer.ReadChunks", 0, "magic %q", magic)
	}
	count, err := reader.ReadU32()
	if err != nil {
		return 0, aerr.New(aerr.ErrTruncatedContainer, "acontainer.ReadChunks", reader.Offset(), "reading chunk count").
			WithCause(err)
	}
	return count, nil
}

func readChunk(reader *lbytes.Reader, index int) (*Chunk, error) {
	start := reader.Offset()
	if reader.Remaining() < ChunkHeaderSize {
		return nil, aerr.New(
			aerr.ErrTruncatedContainer, "acontainer.ReadChunks", start,
			"chunk %d header needs %d bytes, %d left", index, ChunkHeaderSize, reader.Remaining(),
		)
	}
	header, err := DecodeHeader(reader)
	if err != nil {
		return nil, aerr.New(aerr.ErrTruncatedContainer, "acontainer.ReadChunks", start, "chunk %d header", index).
			WithCause(err)
	}

	kind := ChunkKind(header.Kind)
	switch {
	case kind != KindRaw && kind != KindCompressedA:
		return nil, aerr.New(aerr.ErrUnsupportedFormat, "acontainer.ReadChunks", start, "chunk %d kind %d", index, header.Kind)
	case header.UncompressedSize > MaxChunkSize || header.CompressedSize > MaxChunkSize:
		return nil, aerr.New(
			aerr.ErrMalformedChunk, "acontainer.ReadChunks", start,
			"chunk %d declares %d/%d bytes, limit is %d",
			index, header.CompressedSize, header.UncompressedSize, MaxChunkSize,
		)
	case kind == KindRaw && header.UncompressedSize != header.CompressedSize:
		return nil, aerr.New(
			aerr.ErrMalformedChunk, "acontainer.ReadChunks", start,
			"raw chunk %d has compressed size %d and uncompressed size %d",
			index, header.CompressedSize, header.UncompressedSize,
		)
	}

	payload, err := reader.ReadBytes(int(header.CompressedSize))
	if err != nil {
		return nil, aerr.New(aerr.ErrTruncatedContainer, "acontainer.ReadChunks", reader.Offset(), "chunk %d payload", index).
			WithCause(err)
	}
	return &Chunk{
		Kind:             kind,
		Offset:           start,
		UncompressedSize: header.UncompressedSize,
		CompressedSize:   header.CompressedSize,
		Payload:          payload,
	}, nil
}

// ReadChunks validates the framing of a container and returns its chunks in
// stream order without decompressing anything.
func ReadChunks(bs []byte) ([]Chunk, error) {
	reader := lbytes.NewBytesReader(bs)
	count, err := decodePreamble(reader)
	if err != nil {
		return nil, err
	}
	if uint64(count)*ChunkHeaderSize > uint64(reader.Remaining()) {
		return nil, aerr.New(
			aerr.ErrTruncatedContainer, "acontainer.ReadChunks", reader.Offset(),
			"%d chunks declared, only %d bytes follow", count, reader.Remaining(),
		)
	}

	chunks := make([]Chunk, 0, count)
	for i := 0; i < int(count); i++ {
		chunk, err := readChunk(reader, i)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}
	if reader.Remaining() != 0 {
		return nil, aerr.New(
			aerr.ErrTruncatedContainer, "acontainer.ReadChunks", reader.Offset(),
			"%d trailing bytes after %d chunks", reader.Remaining(), count,
		)
	}
	return chunks, nil
}

type Decoder struct {
	Block acodec.BlockDecompressor
}

func NewDecoder(block acodec.BlockDecompressor) *Decoder {
	return &Decoder{Block: block}
}

func (r *Decoder) decodeChunk(chunk Chunk, index int) ([]byte, error) {
	if chunk.Kind == KindRaw {
		return chunk.Payload, nil
	}

	bs, err := r.Block.Decompress(chunk.Payload, int(chunk.UncompressedSize))
	if err != nil {
		return nil, aerr.New(aerr.ErrMalformedChunk, "acontainer.Decode", chunk.Offset, "chunk %d", index).
			WithCause(err)
	}
	if len(bs) != int(chunk.UncompressedSize) {
		return nil, aerr.New(
			aerr.ErrDecompressionSizeMismatch, "acontainer.Decode", chunk.Offset,
			"chunk %d declared %d bytes, got %d", index, chunk.UncompressedSize, len(bs),
		)
	}
	return bs, nil
}

// Decode reassembles the logical payload of a container by concatenating
// every chunk's output in stream order.
func (r *Decoder) Decode(bs []byte) ([]byte, error) {
	chunks, err := ReadChunks(bs)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, chunk := range chunks {
		total += int(chunk.UncompressedSize)
	}
	payload := make([]byte, 0, total)
	for i, chunk := range chunks {
		chunkBs, err := r.decodeChunk(chunk, i)
		if err != nil {
			return nil, err
		}
		payload = append(payload, chunkBs...)
	}
	return payload, nil
}
