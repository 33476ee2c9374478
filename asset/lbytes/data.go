package lbytes

import (
	"bytes"
	"fmt"
)

type (
	// Reader is a little-endian cursor over an in-memory buffer. Offset
	// reports the exclusive end of everything read so far.
	Reader struct {
		bytes.Reader
		buf []byte
	}
	Instruction struct {
		Key          string
		ReadFunction ReadFunction
	}
	ReadFunction func() (any, error)

	ErrShortRead struct {
		Offset    int
		Wanted    int
		Available int
	}
)

func (r ErrShortRead) Error() string {
	return fmt.Sprintf(
		"short read at offset %d: wanted %d bytes, %d available",
		r.Offset, r.Wanted, r.Available,
	)
}
