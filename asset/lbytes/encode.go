package lbytes

import (
	"encoding/binary"
)

func EncodeValueInt(value any) []byte {
	valueUInt32 := uint32(0)
	switch value := value.(type) {
	case int:
		valueUInt32 = uint32(value)
	case uint32:
		valueUInt32 = value
	case int32:
		valueUInt32 = uint32(value)
	case uint8:
		valueUInt32 = uint32(value)
	}
	bs := make([]byte, 4)
	binary.LittleEndian.PutUint32(bs, valueUInt32)
	return bs
}

func EncodeSizedBytes(value []byte) []byte {
	bs := EncodeValueInt(len(value))
	return append(bs, value...)
}

func EncodeSizedString(value string) []byte {
	return EncodeSizedBytes([]byte(value))
}
