package astrings

import (
	"github.com/pkg/errors"
	"soulframe-lang/asset/acodec"
	"soulframe-lang/asset/aerr"
	"soulframe-lang/asset/lbytes"
)

func DecodeHeader(reader *lbytes.Reader) (*Header, error) {
	if reader.Remaining() < HeaderSize {
		return nil, aerr.New(
			aerr.ErrUnsupportedFormat, "astrings.DecodeHeader", reader.Offset(),
			"header needs %d bytes, %d available", HeaderSize, reader.Remaining(),
		)
	}
	instructions := []lbytes.Instruction{
		{Key: "header_size", ReadFunction: lbytes.CreateU32ReadFunction(reader)},
		{Key: "format", ReadFunction: lbytes.CreateU32ReadFunction(reader)},
		{Key: "version", ReadFunction: lbytes.CreateU32ReadFunction(reader)},
		{Key: "record_count", ReadFunction: lbytes.CreateU32ReadFunction(reader)},
		{Key: "stream_size", ReadFunction: lbytes.CreateU32ReadFunction(reader)},
	}
	header, err := lbytes.ExecuteInstructions[Header](instructions)
	if err != nil {
		return nil, errors.Wrap(err, "astrings.DecodeHeader error")
	}

	switch {
	case header.HeaderSize != HeaderSize:
		return nil, aerr.New(aerr.ErrUnsupportedFormat, "astrings.DecodeHeader", 0, "header size %d", header.HeaderSize)
	case header.Format != FormatDictStrings:
		return nil, aerr.New(aerr.ErrUnsupportedFormat, "astrings.DecodeHeader", 4, "format 0x%X", header.Format)
	case header.Version != Version:
		return nil, aerr.New(aerr.ErrUnsupportedFormat, "astrings.DecodeHeader", 8, "version %d", header.Version)
	}
	return header, nil
}

func truncatedRecord(reader *lbytes.Reader, index int, field string, err error) aerr.Error {
	return aerr.New(aerr.ErrTruncatedRecord, "astrings.DecodeRecords", reader.Offset(), "record %d %s", index, field).
		WithCause(err)
}

// DecodeRecords scans exactly count records out of a decompressed stream.
func DecodeRecords(stream []byte, count uint32) (*Table, error) {
	reader := lbytes.NewBytesReader(stream)
	table := NewTable()
	for i := 0; i < int(count); i++ {
		if reader.Remaining() == 0 {
			return nil, aerr.New(
				aerr.ErrRecordCountMismatch, "astrings.DecodeRecords", reader.Offset(),
				"%d records declared, stream ended after %d", count, i,
			)
		}
		start := reader.Offset()
		key, err := reader.ReadSizedString()
		if err != nil {
			return nil, truncatedRecord(reader, i, "key", err)
		}
		value, err := reader.ReadSizedString()
		if err != nil {
			return nil, truncatedRecord(reader, i, "value", err)
		}
		if !table.entries.PutNew(key, value) {
			return nil, aerr.New(aerr.ErrDuplicateKey, "astrings.DecodeRecords", start, "record %d key %q", i, key)
		}
	}
	if reader.Remaining() != 0 {
		return nil, aerr.New(
			aerr.ErrRecordCountMismatch, "astrings.DecodeRecords", reader.Offset(),
			"%d bytes left after %d records", reader.Remaining(), count,
		)
	}
	return table, nil
}

type Decoder struct {
	Dict       acodec.DictDecompressor
	Dictionary []byte
}

func NewDecoder(dict acodec.DictDecompressor, dictionary []byte) *Decoder {
	return &Decoder{
		Dict:       dict,
		Dictionary: dictionary,
	}
}

// Decode turns a container payload into its string table.
func (r *Decoder) Decode(payload []byte) (*Table, error) {
	reader := lbytes.NewBytesReader(payload)
	header, err := DecodeHeader(reader)
	if err != nil {
		return nil, err
	}

	stream, err := r.Dict.DecompressDict(reader.ReadRest(), r.Dictionary)
	if err != nil {
		return nil, errors.Wrap(err, "astrings.Decode error decompressing record stream")
	}
	if len(stream) != int(header.StreamSize) {
		return nil, aerr.New(
			aerr.ErrDecompressionSizeMismatch, "astrings.Decode", HeaderSize,
			"stream declared %d bytes, got %d", header.StreamSize, len(stream),
		)
	}

	table, err := DecodeRecords(stream, header.RecordCount)
	if err != nil {
		return nil, errors.Wrap(err, "astrings.Decode error")
	}
	return table, nil
}
