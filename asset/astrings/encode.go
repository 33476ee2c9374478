package astrings

import (
	"soulframe-lang/asset/aerr"
	"soulframe-lang/asset/lbytes"
)

// FromRecords builds a table in record order, rejecting repeated keys.
func FromRecords(records []Record) (*Table, error) {
	table := NewTable()
	for i, record := range records {
		if !table.entries.PutNew(record.Key, record.Value) {
			return nil, aerr.New(aerr.ErrDuplicateKey, "astrings.FromRecords", -1, "record %d key %q", i, record.Key)
		}
	}
	return table, nil
}

func EncodeRecord(record Record) []byte {
	bs := lbytes.EncodeSizedString(record.Key)
	return append(bs, lbytes.EncodeSizedString(record.Value)...)
}

func EncodeRecords(records []Record) []byte {
	bs := make([]byte, 0)
	for _, record := range records {
		bs = append(bs, EncodeRecord(record)...)
	}
	return bs
}

func EncodeHeader(recordCount int, streamSize int) []byte {
	bs := make([]byte, 0, HeaderSize)
	bs = append(bs, lbytes.EncodeValueInt(HeaderSize)...)
	bs = append(bs, lbytes.EncodeValueInt(FormatDictStrings)...)
	bs = append(bs, lbytes.EncodeValueInt(Version)...)
	bs = append(bs, lbytes.EncodeValueInt(recordCount)...)
	bs = append(bs, lbytes.EncodeValueInt(streamSize)...)
	return bs
}
