package amanifest

import (
	"github.com/pkg/errors"
	"soulframe-lang/asset/aerr"
	"soulframe-lang/asset/ahash"
	"soulframe-lang/asset/lbytes"
)

func truncated(reader *lbytes.Reader, caller string, field string, err error) aerr.Error {
	return aerr.New(aerr.ErrTruncatedManifest, caller, reader.Offset(), "reading %s", field).
		WithCause(err)
}

func DecodeEntry(reader *lbytes.Reader) (*Entry, error) {
	// manual decoding is needed since the hash is a fixed-size array,
	// which does not survive the JSON trip of lbytes.ExecuteInstructions
	entry := Entry{}
	// paths are kept as raw bytes so that Encode reproduces them exactly
	path, err := reader.ReadSizedBytes()
	if err != nil {
		return nil, truncated(reader, "amanifest.DecodeEntry", "path", err)
	}
	entry.Path = string(path)

	hash, err := reader.ReadBytes(ahash.Size)
	if err != nil {
		return nil, truncated(reader, "amanifest.DecodeEntry", "hash", err).WithPath(entry.Path)
	}
	copy(entry.Hash[:], hash)

	entry.Size, err = reader.ReadU32()
	if err != nil {
		return nil, truncated(reader, "amanifest.DecodeEntry", "size", err).WithPath(entry.Path)
	}
	entry.Flags, err = reader.ReadU32()
	if err != nil {
		return nil, truncated(reader, "amanifest.DecodeEntry", "flags", err).WithPath(entry.Path)
	}

	return &entry, nil
}

// Decode parses a manifest payload: a u32 entry count followed by that many
// entries. The whole buffer must be consumed.
func Decode(bs []byte) (*Manifest, error) {
	reader := lbytes.NewBytesReader(bs)
	count, err := reader.ReadU32()
	if err != nil {
		return nil, truncated(reader, "amanifest.Decode", "entry count", err)
	}
	if uint64(count)*MinEntrySize > uint64(reader.Remaining()) {
		return nil, aerr.New(
			aerr.ErrTruncatedManifest, "amanifest.Decode", 0,
			"%d entries declared, only %d bytes follow", count, reader.Remaining(),
		)
	}

	manifest := &Manifest{
		entries: make([]Entry, 0, count),
		index:   make(map[string]int, count),
	}
	for i := 0; i < int(count); i++ {
		start := reader.Offset()
		entry, err := DecodeEntry(reader)
		if err != nil {
			err := errors.Wrapf(err, "amanifest.Decode error reading entry %d", i)
			return nil, err
		}
		if _, existed := manifest.index[entry.Path]; existed {
			return nil, aerr.New(aerr.ErrDuplicatePath, "amanifest.Decode", start, "entry %d", i).
				WithPath(entry.Path)
		}
		manifest.index[entry.Path] = len(manifest.entries)
		manifest.entries = append(manifest.entries, *entry)
	}
	if reader.Remaining() != 0 {
		return nil, aerr.New(
			aerr.ErrTruncatedManifest, "amanifest.Decode", reader.Offset(),
			"%d trailing bytes after %d entries", reader.Remaining(), count,
		)
	}

	return manifest, nil
}
