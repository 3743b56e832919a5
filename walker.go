package extprot

// Visitor receives structural events while Walk traverses an encoded
// extprot value without a schema. It sees exactly what structural skip
// (spec.md §4.5) sees — wire types, tags, and lengths — never a decoded
// logical value, since there is no descriptor to interpret one.
//
// Adapted from glint's walker.go Visitor, generalized from glint's named
// struct-field schema to extprot's tag/wire-type framing.
type Visitor interface {
	// VisitValue is called for every primitive value: raw holds its
	// payload bytes (the varint encoding for Vint, the fixed bytes for
	// the Bits* types, the delimited payload for Bytes, and nil for
	// Enum).
	VisitValue(tag uint64, wt WireType, raw []byte) error
	// VisitCompositeStart is called on entering a Tuple, HTuple, or
	// Assoc, with the item count as declared on the wire (pair count
	// for Assoc, not byte count).
	VisitCompositeStart(tag uint64, wt WireType, declaredItems uint64) error
	// VisitCompositeEnd is called after every child of the composite
	// started by the matching VisitCompositeStart has been visited.
	VisitCompositeEnd(tag uint64, wt WireType) error
}

// Walk traverses a single top-level extprot value in data, calling
// visitor for every value encountered and recursing into Tuple/HTuple/
// Assoc bodies, using DefaultLimits.
func Walk(data []byte, visitor Visitor) error {
	return WalkWithLimits(data, DefaultLimits, visitor)
}

// WalkWithLimits is Walk with caller-supplied bounds checking.
func WalkWithLimits(data []byte, limits Limits, visitor Visitor) error {
	return walk(NewByteSource(data), limits, visitor)
}

func walk(src Source, limits Limits, visitor Visitor) error {
	prefix, err := decodeUvarint(src, limits)
	if err != nil {
		return err
	}
	tag, wt := unpackPrefix(prefix)

	switch wt {
	case WireVint:
		u, err := decodeUvarint(src, limits)
		if err != nil {
			return err
		}
		return visitor.VisitValue(tag, wt, appendUvarint(nil, u))

	case WireEnum:
		return visitor.VisitValue(tag, wt, nil)

	case WireBits8:
		b, err := src.ReadByte()
		if err != nil {
			return err
		}
		return visitor.VisitValue(tag, wt, []byte{b})

	case WireBits32:
		b, err := src.Read(4)
		if err != nil {
			return err
		}
		return visitor.VisitValue(tag, wt, b)

	case WireBits64Long, WireBits64Float:
		b, err := src.Read(8)
		if err != nil {
			return err
		}
		return visitor.VisitValue(tag, wt, b)

	case WireBytes:
		length, err := decodeUvarint(src, limits)
		if err != nil {
			return err
		}
		if err := limits.checkPayloadLen(length); err != nil {
			return err
		}
		b, err := src.Read(length)
		if err != nil {
			return err
		}
		return visitor.VisitValue(tag, wt, b)

	case WireTuple, WireHTuple, WireAssoc:
		length, err := decodeUvarint(src, limits)
		if err != nil {
			return err
		}
		if err := limits.checkPayloadLen(length); err != nil {
			return err
		}
		sub, err := src.Substream(length)
		if err != nil {
			return err
		}
		nitems, err := decodeUvarint(sub, limits)
		if err != nil {
			return err
		}
		if err := visitor.VisitCompositeStart(tag, wt, nitems); err != nil {
			return err
		}
		count := nitems
		if wt == WireAssoc {
			count *= 2
		}
		for i := uint64(0); i < count; i++ {
			if err := walk(sub, limits, visitor); err != nil {
				return err
			}
		}
		return visitor.VisitCompositeEnd(tag, wt)

	default:
		return unexpectedWireTypef("unknown wire type %v while walking", wt)
	}
}
