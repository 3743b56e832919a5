package extprot

import (
	"io"

	"github.com/sirupsen/logrus"
)

// discardLogger is the default, silent diagnostics sink. Callers that
// want tracing of compatibility events (trailing-item skip, primitive
// promotion, default-fill) install their own *logrus.Logger via
// SetLogger; nothing here ever changes control flow based on logging.
var codecLogger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetLogger installs l as the package-wide diagnostics logger. Passing
// nil restores the default discard logger. Safe to call once during
// process startup; not safe to call concurrently with in-flight
// encode/decode calls.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = newDiscardLogger()
	}
	codecLogger = l
}

// WriteValue renders v according to d onto sink, including the leading
// prefix varint and, for delimited wire types, the length framing.
func WriteValue(sink Sink, d Descriptor, v any) error {
	wt, tag, err := d.wireTag(v)
	if err != nil {
		return err
	}
	if !wt.Delimited() {
		if err := writeUvarint(sink, packPrefix(tag, wt)); err != nil {
			return err
		}
		return d.writeValue(sink, v)
	}

	scratch := NewBufferFromPool()
	defer scratch.ReturnToPool()
	if err := d.writeValue(scratch, v); err != nil {
		return err
	}
	if err := writeUvarint(sink, packPrefix(tag, wt)); err != nil {
		return err
	}
	if err := writeUvarint(sink, uint64(len(scratch.Bytes))); err != nil {
		return err
	}
	return sink.Write(scratch.Bytes)
}

// ReadValue parses one value from src according to d. topLevel controls
// whether running out of bytes before the prefix is a clean ErrEOF (the
// caller asked for "the next value, if any") or an ErrUnexpectedEOF
// (we're mid-structure and a value is mandatory).
func ReadValue(src Source, d Descriptor, limits Limits, topLevel bool) (any, error) {
	return readValueCtx(src, d, decodeCtx{limits: limits}, topLevel)
}

func readValueCtx(src Source, d Descriptor, ctx decodeCtx, topLevel bool) (any, error) {
	var prefix uint64
	var err error
	if topLevel {
		prefix, err = decodePrefixVarint(src, ctx.limits)
	} else {
		prefix, err = decodeUvarint(src, ctx.limits)
	}
	if err != nil {
		return nil, err
	}
	tag, wt := unpackPrefix(prefix)

	if !d.recognizes(wt, tag) {
		// Promotion (spec.md §4.5) lifts a bare primitive into a composite
		// descriptor's first subtype; it never applies when the wire
		// already shows another composite shape (Tuple/HTuple/Assoc) that
		// this descriptor simply doesn't recognize at this tag — that is
		// a genuine dispatch failure, e.g. an unknown sum constructor.
		if wt == WireTuple || wt == WireHTuple || wt == WireAssoc {
			return nil, unexpectedWireTypef("descriptor does not accept wire type %v tag %d", wt, tag)
		}
		return promotePrimitive(src, d, ctx, wt, tag)
	}

	if !wt.Delimited() {
		return d.readValue(ctx, wt, tag, src)
	}

	length, err := decodeUvarint(src, ctx.limits)
	if err != nil {
		return nil, err
	}
	if err := ctx.limits.checkPayloadLen(length); err != nil {
		return nil, err
	}

	if wt == WireBytes {
		raw, err := src.Read(length)
		if err != nil {
			return nil, err
		}
		return d.readValue(ctx, wt, tag, NewByteSource(raw))
	}

	sub, err := src.Substream(length)
	if err != nil {
		return nil, err
	}
	return d.readValue(ctx, wt, tag, sub)
}

// promotePrimitive implements the backward-compatibility rule of
// spec.md §4.5: when a descriptor expecting a composite sees a bare
// primitive on the wire instead, it lifts that primitive into the
// descriptor's first subtype and default-fills the rest, rather than
// failing outright. Applies only to descriptors that opt in via the
// promotable interface (Tuple, Message, Sum).
func promotePrimitive(src Source, d Descriptor, ctx decodeCtx, wt WireType, tag uint64) (any, error) {
	p, ok := d.(promotable)
	if !ok {
		return nil, unexpectedWireTypef("descriptor does not accept wire type %v tag %d", wt, tag)
	}
	subtypes := p.promotionSubtypes()
	if len(subtypes) == 0 {
		return nil, parseErrorf("could not promote primitive to Tuple type")
	}

	codecLogger.WithFields(logrus.Fields{
		"wireType": wt.String(),
		"tag":      tag,
	}).Debug("promoting bare primitive into first subtype slot")

	var payload Source = src
	if wt.Delimited() {
		length, err := decodeUvarint(src, ctx.limits)
		if err != nil {
			return nil, err
		}
		if err := ctx.limits.checkPayloadLen(length); err != nil {
			return nil, err
		}
		if wt == WireBytes {
			raw, err := src.Read(length)
			if err != nil {
				return nil, err
			}
			payload = NewByteSource(raw)
		} else {
			sub, err := src.Substream(length)
			if err != nil {
				return nil, err
			}
			payload = sub
		}
	}

	if !subtypes[0].recognizes(wt, tag) {
		return nil, unexpectedWireTypef("descriptor does not accept wire type %v tag %d", wt, tag)
	}
	first, err := subtypes[0].readValue(ctx, wt, tag, payload)
	if err != nil {
		return nil, err
	}

	rest := make([]any, len(subtypes)-1)
	for i, st := range subtypes[1:] {
		def, err := st.defaultValue()
		if err != nil {
			return nil, err
		}
		rest[i] = def
	}

	return p.buildPromoted(first, rest)
}

// skipValue consumes one value's bytes from src without interpreting
// them, reading only enough to know the value's extent: the prefix, and
// for delimited types, the declared length (the payload itself is
// skipped wholesale). This is the structural skip of spec.md §4.5; it
// never invokes a descriptor, which is what lets a reader tolerate
// trailing fields it does not understand.
func skipValue(src Source, limits Limits) error {
	prefix, err := decodeUvarint(src, limits)
	if err != nil {
		return err
	}
	_, wt := unpackPrefix(prefix)

	switch wt {
	case WireVint, WireEnum:
		if wt == WireVint {
			if _, err := decodeUvarint(src, limits); err != nil {
				return err
			}
		}
		return nil
	case WireBits8:
		_, err := src.ReadByte()
		return err
	case WireBits32:
		return src.Skip(4)
	case WireBits64Long, WireBits64Float:
		return src.Skip(8)
	case WireTuple, WireBytes, WireHTuple, WireAssoc:
		length, err := decodeUvarint(src, limits)
		if err != nil {
			return err
		}
		if err := limits.checkPayloadLen(length); err != nil {
			return err
		}
		return src.Skip(length)
	default:
		return unexpectedWireTypef("unknown wire type %v while skipping", wt)
	}
}

// FromBytes decodes a single top-level value from bytes using d, with
// default Limits.
func FromBytes(bytes []byte, d Descriptor) (any, error) {
	return FromBytesWithLimits(bytes, d, DefaultLimits)
}

// FromBytesWithLimits is FromBytes with caller-supplied bounds checking.
func FromBytesWithLimits(bytes []byte, d Descriptor, limits Limits) (any, error) {
	return ReadValue(NewByteSource(bytes), d, limits, true)
}

// FromSource decodes a single top-level value read from r using d.
// Returns ErrEOF if r has no more bytes at all.
func FromSource(r io.Reader, d Descriptor) (any, error) {
	return ReadValue(NewReaderSource(r), d, DefaultLimits, true)
}

// ToBytes renders v according to d into a freshly allocated byte slice.
func ToBytes(v any, d Descriptor) ([]byte, error) {
	buf := NewBufferFromPool()
	defer buf.ReturnToPool()
	if err := WriteValue(buf, d, v); err != nil {
		return nil, err
	}
	out := make([]byte, len(buf.Bytes))
	copy(out, buf.Bytes)
	return out, nil
}

// ToSink renders v according to d onto w.
func ToSink(w io.Writer, v any, d Descriptor) error {
	return WriteValue(NewWriterSink(w), d, v)
}
