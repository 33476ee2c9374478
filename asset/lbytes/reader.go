package lbytes

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
)

func NewBytesReader(bs []byte) *Reader {
	return &Reader{
		Reader: *bytes.NewReader(bs),
		buf:    bs,
	}
}

// Offset returns the number of bytes consumed so far.
func (b *Reader) Offset() int {
	return int(b.Size()) - b.Len()
}

func (b *Reader) Remaining() int {
	return b.Len()
}

func (b *Reader) rewind(offset int) {
	// seeking inside the buffer never fails
	_, _ = b.Seek(int64(offset), io.SeekStart)
}

func (b *Reader) ReadBytes(n int) ([]byte, error) {
	bs := make([]byte, n)
	// add return early to avoid EOF error
	// when reader's pointer reach end of file
	// while the number of next bytes to read is 0
	if n == 0 {
		return bs, nil
	}
	if n < 0 || n > b.Len() {
		return nil, ErrShortRead{
			Offset:    b.Offset(),
			Wanted:    n,
			Available: b.Len(),
		}
	}
	if _, err := io.ReadFull(&b.Reader, bs); err != nil {
		return nil, err
	}
	return bs, nil
}

func (b *Reader) ReadU8() (uint8, error) {
	bs, err := b.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

func (b *Reader) ReadU32() (uint32, error) {
	bs, err := b.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(bs), nil
}

func (b *Reader) ReadSizedBytes() ([]byte, error) {
	start := b.Offset()
	n, err := b.ReadU32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(b.Len()) {
		available := b.Len()
		b.rewind(start)
		return nil, ErrShortRead{
			Offset:    start,
			Wanted:    int(n) + 4,
			Available: available + 4,
		}
	}
	return b.ReadBytes(int(n))
}

// ReadSizedString is ReadSizedBytes decoded as UTF-8. Invalid sequences
// become U+FFFD instead of failing the read.
func (b *Reader) ReadSizedString() (string, error) {
	bs, err := b.ReadSizedBytes()
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(bs), "\uFFFD"), nil
}

func (b *Reader) ReadString(n int) (string, error) {
	bs, err := b.ReadBytes(n)
	if err != nil {
		return "", err
	}

	return string(bs), nil
}

// ReadRest consumes and returns everything left in the buffer without copying.
func (b *Reader) ReadRest() []byte {
	rest := b.buf[b.Offset():]
	_, _ = b.Seek(0, io.SeekEnd)
	return rest
}
