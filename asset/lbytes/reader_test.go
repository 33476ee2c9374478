package lbytes

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesReader_ReadU32(t *testing.T) {
	reader := NewBytesReader(
		[]byte{
			3, 1, 4, 3,
			12, 34, 56, 78,
		},
	)

	resultInt1, err := reader.ReadU32()
	assert.NoError(t, err)
	assert.Equal(t, uint32(50594051), resultInt1)
	assert.Equal(t, 4, reader.Offset())

	resultInt2, err := reader.ReadU32()
	assert.NoError(t, err)
	assert.Equal(t, uint32(1312301580), resultInt2)
	assert.Equal(t, 8, reader.Offset())
	assert.Equal(t, 0, reader.Remaining())
}

func TestBytesReader_ShortRead(t *testing.T) {
	reader := NewBytesReader([]byte{1, 2, 3})

	_, err := reader.ReadU32()
	var shortRead ErrShortRead
	require.True(t, errors.As(err, &shortRead))
	assert.Equal(t, ErrShortRead{Offset: 0, Wanted: 4, Available: 3}, shortRead)
	// a failed read does not move the cursor
	assert.Equal(t, 0, reader.Offset())

	value, err := reader.ReadU8()
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), value)
	assert.Equal(t, 1, reader.Offset())
}

func TestBytesReader_ReadSizedString(t *testing.T) {
	bs := append(EncodeSizedString("Languages.bin"), EncodeSizedString("")...)
	reader := NewBytesReader(bs)

	s, err := reader.ReadSizedString()
	assert.NoError(t, err)
	assert.Equal(t, "Languages.bin", s)

	s, err = reader.ReadSizedString()
	assert.NoError(t, err)
	assert.Equal(t, "", s)
	assert.Equal(t, len(bs), reader.Offset())
}

func TestBytesReader_ReadSizedStringOverflow(t *testing.T) {
	bs := append(EncodeValueInt(100), []byte("short")...)
	reader := NewBytesReader(bs)

	_, err := reader.ReadSizedString()
	var shortRead ErrShortRead
	require.True(t, errors.As(err, &shortRead))
	assert.Equal(t, 0, shortRead.Offset)
	assert.Equal(t, 0, reader.Offset())
}

func TestBytesReader_ReadSizedStringInvalidUTF8(t *testing.T) {
	reader := NewBytesReader(EncodeSizedBytes([]byte{'o', 0xff, 'k'}))

	s, err := reader.ReadSizedString()
	assert.NoError(t, err)
	assert.Equal(t, "o�k", s)
}

func TestBytesReader_ReadRest(t *testing.T) {
	reader := NewBytesReader([]byte{1, 2, 3, 4, 5})
	_, err := reader.ReadBytes(2)
	require.NoError(t, err)

	assert.Equal(t, []byte{3, 4, 5}, reader.ReadRest())
	assert.Equal(t, 5, reader.Offset())
	assert.Empty(t, reader.ReadRest())
}

func TestExecuteInstructions(t *testing.T) {
	type header struct {
		Magic []byte `json:"magic"`
		Count uint32 `json:"count"`
	}
	reader := NewBytesReader(append([]byte("SHCC"), EncodeValueInt(7)...))
	result, err := ExecuteInstructions[header](
		[]Instruction{
			{"magic", CreateNBytesReadFunction(reader, 4)},
			{"count", CreateU32ReadFunction(reader)},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []byte("SHCC"), result.Magic)
	assert.Equal(t, uint32(7), result.Count)
}
