package extprot

// AssocPair is one key/value entry of an Assoc logical value. Order is
// preserved as encoded; extprot's wire-level Assoc is a sequence, not a
// set, so duplicate keys are left to the caller to resolve.
type AssocPair struct {
	Key   any
	Value any
}

// AssocDescriptor is the logical type assoc[K,V]: a length-prefixed
// sequence of key/value pairs. Values are represented as []AssocPair in
// wire order.
type AssocDescriptor struct {
	key, value Descriptor
}

// NewAssocDescriptor builds an assoc descriptor over the given key and
// value subtypes.
func NewAssocDescriptor(key, value Descriptor) *AssocDescriptor {
	return &AssocDescriptor{key: key, value: value}
}

func (a *AssocDescriptor) recognizes(wt WireType, tag uint64) bool {
	return wt == WireAssoc && tag == 0
}

func (a *AssocDescriptor) wireTag(v any) (WireType, uint64, error) { return WireAssoc, 0, nil }

func (a *AssocDescriptor) writeValue(sink Sink, v any) error {
	pairs, ok := v.([]AssocPair)
	if !ok {
		return parseErrorf("assoc value must be []AssocPair, got %T", v)
	}
	if err := writeUvarint(sink, uint64(len(pairs))); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := WriteValue(sink, a.key, p.Key); err != nil {
			return err
		}
		if err := WriteValue(sink, a.value, p.Value); err != nil {
			return err
		}
	}
	return nil
}

func (a *AssocDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	ctx, err := ctx.deeper()
	if err != nil {
		return nil, err
	}
	n, err := decodeUvarint(src, ctx.limits)
	if err != nil {
		return nil, err
	}
	pairs := make([]AssocPair, 0, initialCap(n))
	for i := uint64(0); i < n; i++ {
		k, err := readValueCtx(src, a.key, ctx, false)
		if err != nil {
			return nil, err
		}
		v, err := readValueCtx(src, a.value, ctx, false)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, AssocPair{Key: k, Value: v})
	}
	return pairs, nil
}

func (a *AssocDescriptor) defaultValue() (any, error) { return []AssocPair{}, nil }
