package extprot

import "sync"

// Buffer is a growable in-memory Sink. It accumulates encoded bytes via
// append and doubles as the scratch stream used to render a delimited
// payload before its length is known.
type Buffer struct {
	Bytes []byte
}

// Reset clears the buffer contents but preserves allocated memory.
func (b *Buffer) Reset() {
	b.Bytes = b.Bytes[:0]
}

func (b *Buffer) WriteByte(v byte) error {
	b.Bytes = append(b.Bytes, v)
	return nil
}

func (b *Buffer) Write(p []byte) error {
	b.Bytes = append(b.Bytes, p...)
	return nil
}

var bufferPool = sync.Pool{
	New: func() any { return &Buffer{} },
}

// NewBufferFromPool obtains a reset Buffer from the pool. Call
// ReturnToPool when finished with it.
func NewBufferFromPool() *Buffer {
	b := bufferPool.Get().(*Buffer)
	b.Reset()
	return b
}

// ReturnToPool releases the buffer back to the pool. Using the buffer
// after this call results in undefined behavior.
func (b *Buffer) ReturnToPool() {
	bufferPool.Put(b)
}

// appendUvarint encodes value as an unsigned little-endian base-128
// varint, appending it directly to b.
func appendUvarint(b []byte, value uint64) []byte {
	for value >= 0x80 {
		b = append(b, byte(value&0x7F)|0x80)
		value >>= 7
	}
	return append(b, byte(value))
}

// writeUvarint appends value's varint encoding to sink, taking the
// allocation-free fast path when sink is already a *Buffer.
func writeUvarint(sink Sink, value uint64) error {
	if buf, ok := sink.(*Buffer); ok {
		buf.Bytes = appendUvarint(buf.Bytes, value)
		return nil
	}
	var scratch [10]byte
	n := 0
	for value >= 0x80 {
		scratch[n] = byte(value&0x7F) | 0x80
		value >>= 7
		n++
	}
	scratch[n] = byte(value)
	return sink.Write(scratch[:n+1])
}
