package amanifest

import (
	"soulframe-lang/asset/ahash"
)

type (
	Entry struct {
		Path  string     `json:"path"`
		Hash  ahash.Hash `json:"hash"`
		Size  uint32     `json:"size"`
		Flags uint32     `json:"flags"`
	}
	// Manifest is the ordered entry list of one manifest blob. It is built
	// once by Decode or New and never modified afterwards.
	Manifest struct {
		entries []Entry
		index   map[string]int
	}
)

const (
	// MinEntrySize is a record with an empty path: length prefix, hash,
	// size and flags.
	MinEntrySize = 4 + ahash.Size + 4 + 4
)

func (r *Manifest) Len() int {
	return len(r.entries)
}

func (r *Manifest) Entries() []Entry {
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

func (r *Manifest) Paths() []string {
	paths := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		paths = append(paths, entry.Path)
	}
	return paths
}

func (r *Manifest) Lookup(path string) (Entry, bool) {
	index, ok := r.index[path]
	if !ok {
		return Entry{}, false
	}
	return r.entries[index], true
}
