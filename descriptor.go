package extprot

import "math"

// decodeCtx threads the active limits and current recursion depth through
// a single top-level decode, so every nested ReadValue call shares the
// same bounds checking without a package-level global.
type decodeCtx struct {
	limits Limits
	depth  uint
}

func (c decodeCtx) deeper() (decodeCtx, error) {
	c.depth++
	if err := c.limits.checkDepth(c.depth); err != nil {
		return c, err
	}
	return c, nil
}

// Descriptor is the abstract, immutable schema node that drives codec
// dispatch. Descriptors are built once (by whatever upstream schema
// layer produces them — out of scope here) and are safe to share across
// goroutines and across many Source/Sink instances; only the streams
// themselves are single-threaded.
type Descriptor interface {
	// recognizes reports whether this descriptor accepts the given
	// (wire type, tag) pair at this position.
	recognizes(wt WireType, tag uint64) bool

	// wireTag returns the (wire type, tag) this descriptor will render
	// v as. Constant for every kind except Sum, where it depends on
	// which constructor v represents.
	wireTag(v any) (WireType, uint64, error)

	// writeValue renders v's payload (everything after the prefix and,
	// for delimited types, after the length) to sink.
	writeValue(sink Sink, v any) error

	// readValue parses a value's payload from src, where src has
	// already had the prefix (and, for delimited types, the bounded
	// length framing) consumed by the caller.
	readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error)

	// defaultValue returns the zero logical value for this descriptor,
	// or ErrUndefinedDefault if none is defined.
	defaultValue() (any, error)
}

// promotable is implemented by descriptors that support the
// primitive-to-composite promotion rule (Tuple, Message, Sum): when the
// wire carries a bare primitive where this descriptor expected a
// composite, the primitive becomes the value of the first subtype and
// the rest default-fill.
type promotable interface {
	promotionSubtypes() []Descriptor
	buildPromoted(first any, rest []any) (any, error)
}

// ---- Bool ----

// BoolDescriptor is the primitive logical type `bool`. It is carried on
// the wire as an unsigned Vint restricted to {0, 1} rather than a
// dedicated fixed-width type — see DESIGN.md for why this departs from
// the BITS8 framing suggested elsewhere in the spec prose.
type BoolDescriptor struct{}

func (BoolDescriptor) recognizes(wt WireType, tag uint64) bool { return wt == WireVint && tag == 0 }

func (BoolDescriptor) wireTag(v any) (WireType, uint64, error) { return WireVint, 0, nil }

func (BoolDescriptor) writeValue(sink Sink, v any) error {
	b, _ := v.(bool)
	if b {
		return writeUvarint(sink, 1)
	}
	return writeUvarint(sink, 0)
}

func (BoolDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	u, err := decodeUvarint(src, ctx.limits)
	if err != nil {
		return nil, err
	}
	return u != 0, nil
}

func (BoolDescriptor) defaultValue() (any, error) { return false, nil }

// ---- Byte ----

// ByteDescriptor is the primitive logical type `byte`: an unsigned value
// 0..255 carried as a Vint (per spec.md's resolution of the BITS8-vs-VINT
// open question).
type ByteDescriptor struct{}

func (ByteDescriptor) recognizes(wt WireType, tag uint64) bool { return wt == WireVint && tag == 0 }

func (ByteDescriptor) wireTag(v any) (WireType, uint64, error) { return WireVint, 0, nil }

func (ByteDescriptor) writeValue(sink Sink, v any) error {
	b, _ := v.(uint8)
	return writeUvarint(sink, uint64(b))
}

func (ByteDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	u, err := decodeUvarint(src, ctx.limits)
	if err != nil {
		return nil, err
	}
	return uint8(u), nil
}

func (ByteDescriptor) defaultValue() (any, error) { return uint8(0), nil }

// ---- Int ----

// IntDescriptor is the primitive logical type `int`: a signed, zig-zag
// encoded Vint.
type IntDescriptor struct{}

func (IntDescriptor) recognizes(wt WireType, tag uint64) bool { return wt == WireVint && tag == 0 }

func (IntDescriptor) wireTag(v any) (WireType, uint64, error) { return WireVint, 0, nil }

func (IntDescriptor) writeValue(sink Sink, v any) error {
	n, _ := v.(int64)
	return writeUvarint(sink, encodeZigzag(n))
}

func (IntDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	u, err := decodeUvarint(src, ctx.limits)
	if err != nil {
		return nil, err
	}
	return decodeZigzag(u), nil
}

func (IntDescriptor) defaultValue() (any, error) { return int64(0), nil }

// ---- Long ----

// LongDescriptor is the primitive logical type `long`: a signed 64-bit
// integer carried as 8 raw little-endian bytes (BITS64_LONG), not
// zig-zagged — the fixed width already represents sign via two's
// complement.
type LongDescriptor struct{}

func (LongDescriptor) recognizes(wt WireType, tag uint64) bool {
	return wt == WireBits64Long && tag == 0
}

func (LongDescriptor) wireTag(v any) (WireType, uint64, error) { return WireBits64Long, 0, nil }

func (LongDescriptor) writeValue(sink Sink, v any) error {
	n, _ := v.(int64)
	return writeFixed64(sink, uint64(n))
}

func (LongDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	u, err := readFixed64(src)
	if err != nil {
		return nil, err
	}
	return int64(u), nil
}

func (LongDescriptor) defaultValue() (any, error) { return int64(0), nil }

// ---- Float ----

// FloatDescriptor is the primitive logical type `float`: an IEEE-754
// double carried as 8 raw little-endian bytes (BITS64_FLOAT).
type FloatDescriptor struct{}

func (FloatDescriptor) recognizes(wt WireType, tag uint64) bool {
	return wt == WireBits64Float && tag == 0
}

func (FloatDescriptor) wireTag(v any) (WireType, uint64, error) { return WireBits64Float, 0, nil }

func (FloatDescriptor) writeValue(sink Sink, v any) error {
	f, _ := v.(float64)
	return writeFixed64(sink, math.Float64bits(f))
}

func (FloatDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	u, err := readFixed64(src)
	if err != nil {
		return nil, err
	}
	return math.Float64frombits(u), nil
}

func (FloatDescriptor) defaultValue() (any, error) { return float64(0), nil }

// ---- String ----

// StringDescriptor is the primitive logical type `string`: a raw byte
// sequence carried under the delimited BYTES wire type.
type StringDescriptor struct{}

func (StringDescriptor) recognizes(wt WireType, tag uint64) bool { return wt == WireBytes && tag == 0 }

func (StringDescriptor) wireTag(v any) (WireType, uint64, error) { return WireBytes, 0, nil }

func (StringDescriptor) writeValue(sink Sink, v any) error {
	s, _ := v.(string)
	return sink.Write([]byte(s))
}

func (StringDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	bs, ok := src.(*ByteSource)
	if !ok {
		return nil, parseErrorf("string payload delivered via non-buffered source")
	}
	return string(bs.bytes), nil
}

func (StringDescriptor) defaultValue() (any, error) { return "", nil }

// ---- RawByte (BITS8) ----

// RawByteDescriptor exposes the BITS8 wire type directly: a fixed
// single-byte primitive. No named logical type in this spec uses it
// (bool and byte both map to Vint — see the open-question resolution in
// DESIGN.md) but the primitive tag layer must still read and write it,
// and a schema layer building on this codec may want a true 1-byte fixed
// field distinct from a Vint-encoded byte.
type RawByteDescriptor struct{}

func (RawByteDescriptor) recognizes(wt WireType, tag uint64) bool { return wt == WireBits8 && tag == 0 }

func (RawByteDescriptor) wireTag(v any) (WireType, uint64, error) { return WireBits8, 0, nil }

func (RawByteDescriptor) writeValue(sink Sink, v any) error {
	b, _ := v.(uint8)
	return sink.WriteByte(b)
}

func (RawByteDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	return src.ReadByte()
}

func (RawByteDescriptor) defaultValue() (any, error) { return uint8(0), nil }

// ---- RawInt32 (BITS32) ----

// RawInt32Descriptor exposes the BITS32 wire type directly: 4 raw
// little-endian bytes interpreted as a signed 32-bit integer. Reserved,
// like RawByteDescriptor, for schema layers that want a true fixed-width
// field; no logical type in spec.md currently selects it.
type RawInt32Descriptor struct{}

func (RawInt32Descriptor) recognizes(wt WireType, tag uint64) bool {
	return wt == WireBits32 && tag == 0
}

func (RawInt32Descriptor) wireTag(v any) (WireType, uint64, error) { return WireBits32, 0, nil }

func (RawInt32Descriptor) writeValue(sink Sink, v any) error {
	n, _ := v.(int32)
	return writeFixed32(sink, uint32(n))
}

func (RawInt32Descriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	u, err := readFixed32(src)
	if err != nil {
		return nil, err
	}
	return int32(u), nil
}

func (RawInt32Descriptor) defaultValue() (any, error) { return int32(0), nil }

func writeFixed32(sink Sink, v uint32) error {
	b := [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	return sink.Write(b[:])
}

func readFixed32(src Source) (uint32, error) {
	b, err := src.Read(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func writeFixed64(sink Sink, v uint64) error {
	b := [8]byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	}
	return sink.Write(b[:])
}

func readFixed64(src Source) (uint64, error) {
	b, err := src.Read(8)
	if err != nil {
		return 0, err
	}
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56, nil
}
