package amanifest

import (
	"soulframe-lang/asset/aerr"
	"soulframe-lang/asset/lbytes"
)

// New builds a manifest from entries in the given order.
func New(entries []Entry) (*Manifest, error) {
	manifest := &Manifest{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, entry := range entries {
		if _, existed := manifest.index[entry.Path]; existed {
			return nil, aerr.ForPath(aerr.ErrDuplicatePath, "amanifest.New", entry.Path, "entry %d", i)
		}
		manifest.index[entry.Path] = i
		manifest.entries = append(manifest.entries, entry)
	}
	return manifest, nil
}

func EncodeEntry(entry Entry) []byte {
	bs := make([]byte, 0, MinEntrySize+len(entry.Path))
	bs = append(bs, lbytes.EncodeSizedString(entry.Path)...)
	bs = append(bs, entry.Hash[:]...)
	bs = append(bs, lbytes.EncodeValueInt(entry.Size)...)
	bs = append(bs, lbytes.EncodeValueInt(entry.Flags)...)
	return bs
}

func Encode(manifest *Manifest) []byte {
	bs := lbytes.EncodeValueInt(len(manifest.entries))
	for _, entry := range manifest.entries {
		bs = append(bs, EncodeEntry(entry)...)
	}
	return bs
}
