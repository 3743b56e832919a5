package extprot

// Constructor is one arm of a sum (tagged union) type: a name, the user
// tag that selects it on the wire, and its ordered payload subtypes. A
// Constructor with no Subtypes is a unit constructor, carried under the
// ENUM wire type with no payload bytes at all; `enum` in spec.md's data
// model is simply a Sum whose every constructor is a unit constructor.
type Constructor struct {
	Name     string
	Tag      uint64
	Subtypes []Descriptor
}

// Variant is the logical value produced and consumed by a SumDescriptor:
// the chosen constructor's tag plus its decoded payload fields (nil for
// a unit constructor).
type Variant struct {
	Descriptor *SumDescriptor
	Tag        uint64
	Fields     []any
}

// Constructor returns the schema definition of this variant's chosen arm.
func (v *Variant) Constructor() (Constructor, bool) {
	return v.Descriptor.constructorByTag(v.Tag)
}

type wireTagKey struct {
	wt  WireType
	tag uint64
}

// SumDescriptor is the logical type `sum`: a disjoint union of
// constructors, each itself a tuple (or, for a unit constructor, empty).
// Each constructor is dispatched at the top-level (wire type, tag) pair
// directly — there is no extra wrapper framing around the chosen
// constructor's own Tuple/Enum encoding.
type SumDescriptor struct {
	name         string
	constructors []Constructor
	index        map[wireTagKey]int
}

// NewSumDescriptor builds a sum descriptor named name over the given
// constructors, in declaration order.
func NewSumDescriptor(name string, constructors []Constructor) *SumDescriptor {
	idx := make(map[wireTagKey]int, len(constructors))
	for i, c := range constructors {
		wt := WireTuple
		if len(c.Subtypes) == 0 {
			wt = WireEnum
		}
		idx[wireTagKey{wt: wt, tag: c.Tag}] = i
	}
	return &SumDescriptor{name: name, constructors: constructors, index: idx}
}

// Name returns the sum's schema name.
func (s *SumDescriptor) Name() string { return s.name }

func (s *SumDescriptor) constructorByTag(tag uint64) (Constructor, bool) {
	i, ok := s.constructorIndex(tag)
	if !ok {
		return Constructor{}, false
	}
	return s.constructors[i], true
}

func (s *SumDescriptor) recognizes(wt WireType, tag uint64) bool {
	_, ok := s.index[wireTagKey{wt: wt, tag: tag}]
	return ok
}

func (s *SumDescriptor) wireTag(v any) (WireType, uint64, error) {
	variant, ok := v.(*Variant)
	if !ok {
		return 0, 0, parseErrorf("sum %q value must be *Variant, got %T", s.name, v)
	}
	c, ok := s.constructorByTag(variant.Tag)
	if !ok {
		return 0, 0, unexpectedWireTypef("sum %q has no constructor tagged %d", s.name, variant.Tag)
	}
	if len(c.Subtypes) == 0 {
		return WireEnum, variant.Tag, nil
	}
	return WireTuple, variant.Tag, nil
}

func (s *SumDescriptor) writeValue(sink Sink, v any) error {
	variant := v.(*Variant)
	c, ok := s.constructorByTag(variant.Tag)
	if !ok {
		return unexpectedWireTypef("sum %q has no constructor tagged %d", s.name, variant.Tag)
	}
	if len(c.Subtypes) == 0 {
		return nil
	}
	return writeTupleItems(sink, c.Subtypes, variant.Fields)
}

func (s *SumDescriptor) readValue(ctx decodeCtx, wt WireType, tag uint64, src Source) (any, error) {
	idx, ok := s.index[wireTagKey{wt: wt, tag: tag}]
	if !ok {
		return nil, unexpectedWireTypef("sum %q has no constructor for wire type %v tag %d", s.name, wt, tag)
	}
	c := s.constructors[idx]
	if wt == WireEnum {
		return &Variant{Descriptor: s, Tag: tag}, nil
	}
	items, err := readTupleItems(ctx, src, c.Subtypes)
	if err != nil {
		return nil, err
	}
	return &Variant{Descriptor: s, Tag: tag, Fields: items}, nil
}

func (s *SumDescriptor) defaultValue() (any, error) {
	for _, c := range s.constructors {
		if len(c.Subtypes) == 0 {
			return &Variant{Descriptor: s, Tag: c.Tag}, nil
		}
	}
	return nil, undefinedDefaultf("sum %q has no unit constructor to serve as a default", s.name)
}

// promotionSubtypes and buildPromoted implement promotion against the
// sum's first declared constructor, per spec.md §9: "Implementers should
// treat it as a single rule applied at Tuple and Sum descriptors".
func (s *SumDescriptor) promotionSubtypes() []Descriptor {
	if len(s.constructors) == 0 {
		return nil
	}
	return s.constructors[0].Subtypes
}

func (s *SumDescriptor) buildPromoted(first any, rest []any) (any, error) {
	if len(s.constructors) == 0 {
		return nil, parseErrorf("could not promote primitive to Tuple type")
	}
	c := s.constructors[0]
	fields := make([]any, 0, 1+len(rest))
	fields = append(fields, first)
	fields = append(fields, rest...)
	return &Variant{Descriptor: s, Tag: c.Tag, Fields: fields}, nil
}
