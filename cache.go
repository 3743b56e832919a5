package extprot

import lru "github.com/hashicorp/golang-lru"

// Descriptors are immutable and shared by every stream that uses them
// (spec.md §5), so repeated lookups against the same long-lived
// MessageDescriptor/SumDescriptor (Message.Get, Variant.Constructor, and
// encoding a Variant) are common. Decoding a Sum does not go through
// these caches; it uses the descriptor's own (wire type, tag) index. glint's decoder keeps an analogous per-process lookup
// (decoder.go's DecodeInstructionLookup, keyed by schema hash) but as an
// unbounded map; here the same idea is generalized into a small, bounded,
// evictable cache so a process juggling many distinct schemas over its
// lifetime doesn't grow that lookup table without limit.
const lookupCacheSize = 4096

var (
	fieldIndexCache       = mustLRU(lookupCacheSize)
	constructorIndexCache = mustLRU(lookupCacheSize)
)

func mustLRU(size int) *lru.Cache {
	c, err := lru.New(size)
	if err != nil {
		// Only size<=0 causes an error, and lookupCacheSize is a positive
		// constant, so this is unreachable.
		panic(err)
	}
	return c
}

type fieldIndexKey struct {
	desc *MessageDescriptor
	name string
}

// fieldIndex resolves name to its positional index among m's fields,
// consulting the bounded cache before falling back to a linear scan.
func (m *MessageDescriptor) fieldIndex(name string) (int, bool) {
	key := fieldIndexKey{desc: m, name: name}
	if v, ok := fieldIndexCache.Get(key); ok {
		return v.(int), true
	}
	for i, f := range m.fieldNames {
		if f == name {
			fieldIndexCache.Add(key, i)
			return i, true
		}
	}
	return 0, false
}

type constructorIndexKey struct {
	desc *SumDescriptor
	tag  uint64
}

// constructorIndex resolves tag to its positional index among s's
// constructors, consulting the bounded cache before falling back to a
// linear scan.
func (s *SumDescriptor) constructorIndex(tag uint64) (int, bool) {
	key := constructorIndexKey{desc: s, tag: tag}
	if v, ok := constructorIndexCache.Get(key); ok {
		return v.(int), true
	}
	for i, c := range s.constructors {
		if c.Tag == tag {
			constructorIndexCache.Add(key, i)
			return i, true
		}
	}
	return 0, false
}
