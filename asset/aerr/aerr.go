// Package aerr holds the decode and integrity error taxonomy shared by the
// asset packages. Every failure carries a Kind that callers match with
// errors.Is, plus the position and entry it happened at.
package aerr

import (
	"fmt"
	"strings"
)

// Kind is both a classification and a sentinel error.
type Kind string

func (k Kind) Error() string {
	return string(k)
}

const (
	ErrTruncatedManifest         = Kind("truncated manifest")
	ErrDuplicatePath             = Kind("duplicate manifest path")
	ErrMalformedChunk            = Kind("malformed chunk")
	ErrTruncatedContainer        = Kind("truncated container")
	ErrDecompressionSizeMismatch = Kind("decompression size mismatch")
	ErrUnsupportedFormat         = Kind("unsupported format")
	ErrDuplicateKey              = Kind("duplicate key")
	ErrTruncatedRecord           = Kind("truncated record")
	ErrRecordCountMismatch       = Kind("record count mismatch")
	ErrIntegrity                 = Kind("integrity check failed")
)

const offsetUnknown = -1

type Error struct {
	Kind   Kind
	Caller string
	// Offset is the byte position in the decoded buffer, or -1 when the
	// failure is not tied to one.
	Offset int
	Path   string
	Detail string
	Err    error
}

func New(kind Kind, caller string, offset int, detail string, args ...any) Error {
	return Error{
		Kind:   kind,
		Caller: caller,
		Offset: offset,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// ForPath builds an error that is about a whole entry rather than a position.
func ForPath(kind Kind, caller string, path string, detail string, args ...any) Error {
	return Error{
		Kind:   kind,
		Caller: caller,
		Offset: offsetUnknown,
		Path:   path,
		Detail: fmt.Sprintf(detail, args...),
	}
}

func (r Error) WithPath(path string) Error {
	r.Path = path
	return r
}

func (r Error) WithCause(err error) Error {
	r.Err = err
	return r
}

func (r Error) Error() string {
	parts := []string{r.Caller + ": " + string(r.Kind)}
	if r.Path != "" {
		parts = append(parts, fmt.Sprintf("path %q", r.Path))
	}
	if r.Offset >= 0 {
		parts = append(parts, fmt.Sprintf("offset %d", r.Offset))
	}
	msg := strings.Join(parts, ", ")
	if r.Detail != "" {
		msg += ": " + r.Detail
	}
	if r.Err != nil {
		msg += ": " + r.Err.Error()
	}
	return msg
}

func (r Error) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && kind == r.Kind
}

func (r Error) Unwrap() error {
	return r.Err
}
