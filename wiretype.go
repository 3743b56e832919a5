package extprot

import "fmt"

// WireType identifies the on-wire encoding shape of a value: a 4-bit code
// carried in the low nibble of every value's prefix varint.
type WireType uint8

const (
	WireVint        WireType = 0  // primitive, zig-zag signed varint
	WireTuple       WireType = 1  // composite, length-delimited
	WireBits8       WireType = 2  // primitive, fixed 1 byte
	WireBytes       WireType = 3  // composite, length-delimited raw bytes
	WireBits32      WireType = 4  // primitive, fixed 4 bytes little-endian
	WireHTuple      WireType = 5  // composite, length-delimited homogeneous list
	WireBits64Long  WireType = 6  // primitive, fixed 8 bytes little-endian
	WireAssoc       WireType = 7  // composite, length-delimited key/value pairs
	WireBits64Float WireType = 8  // primitive, fixed 8 bytes little-endian IEEE-754
	WireEnum        WireType = 10 // primitive, no payload
)

// Delimited reports whether values of this wire type begin their payload
// with an unsigned varint byte-length, i.e. whether the low bit is set.
func (w WireType) Delimited() bool {
	return w&1 == 1
}

func (w WireType) String() string {
	switch w {
	case WireVint:
		return "Vint"
	case WireTuple:
		return "Tuple"
	case WireBits8:
		return "Bits8"
	case WireBytes:
		return "Bytes"
	case WireBits32:
		return "Bits32"
	case WireHTuple:
		return "Htuple"
	case WireBits64Long:
		return "Bits64Long"
	case WireAssoc:
		return "Assoc"
	case WireBits64Float:
		return "Bits64Float"
	case WireEnum:
		return "Enum"
	default:
		return fmt.Sprintf("WireType(%d)", uint8(w))
	}
}

// packPrefix combines a user tag and wire type into the prefix value
// written as a leading unsigned varint: tag in the high bits, wire type
// in the low nibble.
func packPrefix(tag uint64, wt WireType) uint64 {
	return tag<<4 | uint64(wt&0xF)
}

// unpackPrefix splits a decoded prefix varint back into its user tag and
// wire type.
func unpackPrefix(prefix uint64) (tag uint64, wt WireType) {
	return prefix >> 4, WireType(prefix & 0xF)
}
