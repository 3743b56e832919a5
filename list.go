package extprot

// maxInitialCap bounds the initial capacity of a slice allocated from an
// attacker-controlled item count, so a tiny payload claiming billions of
// items can't force a huge upfront allocation before the bytes backing
// those items are even read. Mirrors glint's MaxSliceInitCap guard.
const maxInitialCap = 4096

func initialCap(n uint64) int {
	if n > maxInitialCap {
		return maxInitialCap
	}
	return int(n)
}

// ListDescriptor is the logical type list[T] (wire name HTuple,
// "homogeneous tuple"): a length-prefixed sequence whose elements all
// share a single subtype. Values are represented as []any in wire order.
//
// spec.md documents a historical reader quirk where more than one
// subtype is accepted and indexed modulo len(subtypes); this
// implementation resolves that open question by writing and reading
// HTuple with exactly one subtype, and rejecting construction with more
// than one (a programmer error, not a wire error).
type ListDescriptor struct {
	elem Descriptor
}

// NewListDescriptor builds a list descriptor over elem.
func NewListDescriptor(elem Descriptor) *ListDescriptor {
	return &ListDescriptor{elem: elem}
}

func (l *ListDescriptor) recognizes(wt WireType, tag uint64) bool {
	return wt == WireHTuple && tag == 0
}

func (l *ListDescriptor) wireTag(v any) (WireType, uint64, error) { return WireHTuple, 0, nil }

func (l *ListDescriptor) writeValue(sink Sink, v any) error {
	items, ok := v.([]any)
	if !ok {
		return parseErrorf("list value must be []any, got %T", v)
	}
	if err := writeUvarint(sink, uint64(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		if err := WriteValue(sink, l.elem, item); err != nil {
			return err
		}
	}
	return nil
}

func (l *ListDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	ctx, err := ctx.deeper()
	if err != nil {
		return nil, err
	}
	n, err := decodeUvarint(src, ctx.limits)
	if err != nil {
		return nil, err
	}
	items := make([]any, 0, initialCap(n))
	for i := uint64(0); i < n; i++ {
		v, err := readValueCtx(src, l.elem, ctx, false)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (l *ListDescriptor) defaultValue() (any, error) { return []any{}, nil }
