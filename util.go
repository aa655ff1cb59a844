package jsonfmt

import (
	"encoding/binary"
	"fmt"
)

func Ptr[T any](v T) *T { return &v } // Ptr returns a pointer to v, making test setup and optional fields cleaner.

// DecodeUTF16Units converts a UTF-16 byte stream to code units.
// It detects endianness from the BOM, which is dropped. If no BOM is present,
// it defaults to Little Endian.
func DecodeUTF16Units(p []byte) ([]Utf16, error) {
	if len(p)%2 != 0 {
		return nil, fmt.Errorf("%w: odd UTF-16 byte count %d", ErrTruncatedData, len(p))
	}
	var order binary.ByteOrder = binary.LittleEndian
	switch {
	case len(p) >= 2 && p[0] == 0xFE && p[1] == 0xFF:
		order = binary.BigEndian
		p = p[2:]
	case len(p) >= 2 && p[0] == 0xFF && p[1] == 0xFE:
		p = p[2:]
	}
	units := make([]Utf16, len(p)/2)
	for i := range units {
		units[i] = order.Uint16(p[2*i:])
	}
	return units, nil
}
