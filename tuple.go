package extprot

import "github.com/sirupsen/logrus"

// readTupleItems implements the Tuple compatibility rule shared by
// TupleDescriptor and MessageDescriptor (spec.md §4.4): if the wire
// declares no more items than the descriptor expects, the missing
// trailing ones default-fill (backward compatibility — an old writer,
// a new reader); if it declares more, the extra trailing ones are
// skipped structurally without ever being parsed (forward compatibility
// — a new writer, an old reader).
func readTupleItems(ctx decodeCtx, src Source, subtypes []Descriptor) ([]any, error) {
	ctx, err := ctx.deeper()
	if err != nil {
		return nil, err
	}

	nitems, err := decodeUvarint(src, ctx.limits)
	if err != nil {
		return nil, err
	}

	k := len(subtypes)
	items := make([]any, k)

	readN := k
	if nitems < uint64(k) {
		readN = int(nitems)
	}
	for i := 0; i < readN; i++ {
		v, err := readValueCtx(src, subtypes[i], ctx, false)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}

	switch {
	case readN < k:
		for i := readN; i < k; i++ {
			def, err := subtypes[i].defaultValue()
			if err != nil {
				return nil, err
			}
			items[i] = def
		}
		codecLogger.WithFields(logrus.Fields{"have": readN, "want": k}).
			Debug("default-filled missing trailing tuple items")
	case nitems > uint64(k):
		for i := uint64(k); i < nitems; i++ {
			if err := skipValue(src, ctx.limits); err != nil {
				return nil, err
			}
		}
		codecLogger.WithFields(logrus.Fields{"extra": nitems - uint64(k)}).
			Debug("skipped trailing tuple items unknown to this descriptor")
	}

	return items, nil
}

func writeTupleItems(sink Sink, subtypes []Descriptor, items []any) error {
	if len(items) != len(subtypes) {
		return parseErrorf("tuple arity mismatch: descriptor wants %d items, got %d", len(subtypes), len(items))
	}
	if err := writeUvarint(sink, uint64(len(items))); err != nil {
		return err
	}
	for i, item := range items {
		if err := WriteValue(sink, subtypes[i], item); err != nil {
			return err
		}
	}
	return nil
}

func defaultTupleItems(subtypes []Descriptor) ([]any, error) {
	items := make([]any, len(subtypes))
	for i, st := range subtypes {
		def, err := st.defaultValue()
		if err != nil {
			return nil, err
		}
		items[i] = def
	}
	return items, nil
}

// TupleDescriptor is the logical type tuple(T1,...,Tk): an ordered,
// fixed-arity, heterogeneous sequence. Values are represented as []any
// in declaration order.
type TupleDescriptor struct {
	subtypes []Descriptor
}

// NewTupleDescriptor builds a tuple descriptor over the given ordered
// subtypes.
func NewTupleDescriptor(subtypes ...Descriptor) *TupleDescriptor {
	return &TupleDescriptor{subtypes: subtypes}
}

func (t *TupleDescriptor) recognizes(wt WireType, tag uint64) bool {
	return wt == WireTuple && tag == 0
}

func (t *TupleDescriptor) wireTag(v any) (WireType, uint64, error) { return WireTuple, 0, nil }

func (t *TupleDescriptor) writeValue(sink Sink, v any) error {
	items, ok := v.([]any)
	if !ok {
		return parseErrorf("tuple value must be []any, got %T", v)
	}
	return writeTupleItems(sink, t.subtypes, items)
}

func (t *TupleDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	return readTupleItems(ctx, src, t.subtypes)
}

func (t *TupleDescriptor) defaultValue() (any, error) { return defaultTupleItems(t.subtypes) }

func (t *TupleDescriptor) promotionSubtypes() []Descriptor { return t.subtypes }

func (t *TupleDescriptor) buildPromoted(first any, rest []any) (any, error) {
	items := make([]any, 0, 1+len(rest))
	items = append(items, first)
	return append(items, rest...), nil
}

// Message is a named tuple: the logical value produced and consumed by a
// MessageDescriptor. Values are positional, aligned with
// Descriptor.FieldNames().
type Message struct {
	Descriptor *MessageDescriptor
	Values     []any
}

// Get returns the value of the named field, and whether that name
// exists on this message's descriptor.
func (m *Message) Get(name string) (any, bool) {
	i, ok := m.Descriptor.fieldIndex(name)
	if !ok {
		return nil, false
	}
	return m.Values[i], true
}

// MessageDescriptor is the logical type `message`: a Tuple whose
// positional items are also addressable by field name, and whose
// default value is a Message with every field default-filled.
type MessageDescriptor struct {
	name       string
	fieldNames []string
	subtypes   []Descriptor
}

// NewMessageDescriptor builds a message descriptor named name, with
// fields and subtypes given in declaration order.
func NewMessageDescriptor(name string, fields []string, subtypes []Descriptor) *MessageDescriptor {
	if len(fields) != len(subtypes) {
		panic("extprot: message field/subtype count mismatch")
	}
	return &MessageDescriptor{name: name, fieldNames: fields, subtypes: subtypes}
}

// Name returns the message's schema name.
func (m *MessageDescriptor) Name() string { return m.name }

// FieldNames returns the message's field names in declaration order.
func (m *MessageDescriptor) FieldNames() []string { return m.fieldNames }

func (m *MessageDescriptor) recognizes(wt WireType, tag uint64) bool {
	return wt == WireTuple && tag == 0
}

func (m *MessageDescriptor) wireTag(v any) (WireType, uint64, error) { return WireTuple, 0, nil }

func (m *MessageDescriptor) writeValue(sink Sink, v any) error {
	msg, ok := v.(*Message)
	if !ok {
		return parseErrorf("message value must be *Message, got %T", v)
	}
	return writeTupleItems(sink, m.subtypes, msg.Values)
}

func (m *MessageDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	items, err := readTupleItems(ctx, src, m.subtypes)
	if err != nil {
		return nil, err
	}
	return &Message{Descriptor: m, Values: items}, nil
}

func (m *MessageDescriptor) defaultValue() (any, error) {
	items, err := defaultTupleItems(m.subtypes)
	if err != nil {
		return nil, err
	}
	return &Message{Descriptor: m, Values: items}, nil
}

func (m *MessageDescriptor) promotionSubtypes() []Descriptor { return m.subtypes }

func (m *MessageDescriptor) buildPromoted(first any, rest []any) (any, error) {
	items := make([]any, 0, 1+len(rest))
	items = append(items, first)
	items = append(items, rest...)
	return &Message{Descriptor: m, Values: items}, nil
}
