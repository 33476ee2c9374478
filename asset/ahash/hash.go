package ahash

import (
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
)

const Size = md5.Size

// Hash is the 16-byte content hash the CDN addresses blobs by.
type Hash [Size]byte

// Unknown stands in for blobs no manifest lists, such as the root manifest.
// It renders as "---------------------w".
var Unknown = Hash{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

var encoding = base64.RawStdEncoding

func Sum(data []byte) Hash {
	return md5.Sum(data)
}

func (r Hash) String() string {
	return Encode(r[:])
}

func (r Hash) Equal(other Hash) bool {
	return bytes.Equal(r[:], other[:])
}

func (r Hash) IsUnknown() bool {
	return r == Unknown
}

// Encode renders bs as standard base64 without padding, with '/' replaced
// by '-' so the result can sit in a URL path segment.
func Encode(bs []byte) string {
	return strings.ReplaceAll(encoding.EncodeToString(bs), "/", "-")
}

func Decode(s string) (Hash, error) {
	hash := Hash{}
	bs, err := encoding.DecodeString(strings.ReplaceAll(s, "-", "/"))
	if err != nil {
		return hash, errors.Wrapf(err, `ahash.Decode error decoding "%s"`, s)
	}
	if len(bs) != Size {
		return hash, errors.Errorf(`ahash.Decode error: "%s" is %d bytes, expected %d`, s, len(bs), Size)
	}
	copy(hash[:], bs)
	return hash, nil
}

func (r Hash) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Hash) UnmarshalText(text []byte) error {
	hash, err := Decode(string(text))
	if err != nil {
		return err
	}
	*r = hash
	return nil
}
