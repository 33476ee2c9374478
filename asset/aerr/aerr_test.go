package aerr

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := New(ErrTruncatedContainer, "acontainer.Decode", 9, "chunk %d header", 1)
	wrapped := errors.Wrap(err, "DecodeStrings error")

	assert.True(t, errors.Is(wrapped, ErrTruncatedContainer))
	assert.False(t, errors.Is(wrapped, ErrMalformedChunk))

	var decoded Error
	assert.True(t, errors.As(wrapped, &decoded))
	assert.Equal(t, 9, decoded.Offset)
}

func TestError_Unwrap(t *testing.T) {
	err := New(ErrMalformedChunk, "acontainer.Decode", 0, "").WithCause(io.ErrUnexpectedEOF)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.True(t, errors.Is(err, ErrMalformedChunk))
}

func TestError_Error(t *testing.T) {
	err := ForPath(ErrIntegrity, "fetch.Fetch", "/Languages.bin", "expected %s", "AAAA")
	assert.Equal(t, `fetch.Fetch: integrity check failed, path "/Languages.bin": expected AAAA`, err.Error())

	err = New(ErrDuplicateKey, "astrings.Decode", 12, "key %q", "/Menu/Ok")
	assert.Equal(t, `astrings.Decode: duplicate key, offset 12: key "/Menu/Ok"`, err.Error())
}
