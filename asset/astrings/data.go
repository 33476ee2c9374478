package astrings

import (
	"soulframe-lang/ds"
)

const (
	HeaderSize = 5 * 4
	// FormatDictStrings marks a dictionary-compressed string table.
	FormatDictStrings = 0x2B
	Version           = 1
	// MinRecordSize is an empty key followed by an empty value.
	MinRecordSize = 4 + 4
)

type (
	Header struct {
		HeaderSize  uint32 `json:"header_size"`
		Format      uint32 `json:"format"`
		Version     uint32 `json:"version"`
		RecordCount uint32 `json:"record_count"`
		StreamSize  uint32 `json:"stream_size"`
	}
	Record struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	// Table is the ordered key to text mapping of one locale. Keys keep the
	// order they first appeared in the stream.
	Table struct {
		entries *ds.LinkedHashMap[string, string]
	}
)

func NewTable() *Table {
	return &Table{
		entries: ds.NewLinkedHashMap[string, string](),
	}
}

func (r *Table) Len() int {
	return r.entries.Len()
}

func (r *Table) Keys() []string {
	return r.entries.Keys()
}

func (r *Table) Get(key string) (string, bool) {
	return r.entries.Get(key)
}

func (r *Table) Records() []Record {
	records := make([]Record, 0, r.entries.Len())
	r.entries.Each(func(key string, value string) bool {
		records = append(records, Record{Key: key, Value: value})
		return true
	})
	return records
}

// Strings exposes the ordered mapping for serialization.
func (r *Table) Strings() *ds.LinkedHashMap[string, string] {
	return r.entries
}
