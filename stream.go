package extprot

import "io"

// Source is a sequential, position-tracking byte source: the read half of
// the wire reader/writer abstraction. A Source instance is a mutable
// cursor and must not be shared across goroutines without external
// synchronization.
type Source interface {
	// ReadByte returns the next byte, or ErrUnexpectedEOF if none remain.
	ReadByte() (byte, error)
	// Read returns exactly n bytes, advancing the cursor, or
	// ErrUnexpectedEOF if fewer remain.
	Read(n uint64) ([]byte, error)
	// Skip advances the cursor by n bytes without returning them.
	Skip(n uint64) error
	// Substream derives a bounded Source over exactly the next n bytes.
	// ByteSource and the eager ReaderSource path advance this Source's
	// cursor past them at once; a bounded ReaderSource substream shares
	// the underlying reader, so this Source's cursor moves past the n
	// bytes only as the substream consumes them.
	Substream(n uint64) (Source, error)
}

// Sink is a sequential byte sink: the write half of the wire reader/writer
// abstraction. Writers never truncate; a Sink is expected to grow to fit
// whatever is written.
type Sink interface {
	WriteByte(b byte) error
	Write(p []byte) error
}

// ByteSource is an in-memory Source over a borrowed byte slice. Substream
// derivation is zero-copy: it returns a view over the same backing array.
type ByteSource struct {
	bytes []byte
	pos   uint64
}

// NewByteSource wraps b for sequential reading. b is borrowed, not copied;
// the caller must not mutate it while the ByteSource (or any substream
// derived from it) is in use.
func NewByteSource(b []byte) *ByteSource {
	return &ByteSource{bytes: b}
}

func (s *ByteSource) ReadByte() (byte, error) {
	if s.pos >= uint64(len(s.bytes)) {
		return 0, ErrUnexpectedEOF
	}
	b := s.bytes[s.pos]
	s.pos++
	return b, nil
}

func (s *ByteSource) Read(n uint64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if s.pos+n > uint64(len(s.bytes)) {
		return nil, unexpectedEOFf("need %d bytes, %d remain", n, s.BytesLeft())
	}
	b := s.bytes[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

func (s *ByteSource) Skip(n uint64) error {
	if s.pos+n > uint64(len(s.bytes)) {
		return unexpectedEOFf("cannot skip %d bytes, %d remain", n, s.BytesLeft())
	}
	s.pos += n
	return nil
}

func (s *ByteSource) Substream(n uint64) (Source, error) {
	b, err := s.Read(n)
	if err != nil {
		return nil, err
	}
	return &ByteSource{bytes: b}, nil
}

// BytesLeft reports the number of unread bytes.
func (s *ByteSource) BytesLeft() uint64 {
	return uint64(len(s.bytes)) - s.pos
}

// AtEOF reports whether the cursor has consumed every byte.
func (s *ByteSource) AtEOF() bool {
	return s.pos >= uint64(len(s.bytes))
}

// substreamEagerThreshold is the heuristic boundary below which
// ReaderSource.Substream eagerly buffers into a ByteSource rather than
// deriving a bounded wrapper over the underlying io.Reader, trading a
// single allocation for fewer syscalls on typically-small nested values.
const substreamEagerThreshold = 4096

// ReaderSource adapts an io.Reader to Source. Substream derivation below
// the eager threshold buffers fully into a ByteSource; at or above it,
// derivation returns a bounded view over the same underlying reader.
type ReaderSource struct {
	r   io.Reader
	lim *io.LimitedReader // non-nil when this ReaderSource is itself a bounded substream
}

// NewReaderSource wraps r for sequential reading.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (s *ReaderSource) reader() io.Reader {
	if s.lim != nil {
		return s.lim
	}
	return s.r
}

func (s *ReaderSource) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(s.reader(), b[:]); err != nil {
		return 0, unexpectedEOFf("reading byte: %v", err)
	}
	return b[0], nil
}

func (s *ReaderSource) Read(n uint64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(s.reader(), b); err != nil {
		return nil, unexpectedEOFf("reading %d bytes: %v", n, err)
	}
	return b, nil
}

func (s *ReaderSource) Skip(n uint64) error {
	_, err := io.CopyN(io.Discard, s.reader(), int64(n))
	if err != nil {
		return unexpectedEOFf("skipping %d bytes: %v", n, err)
	}
	return nil
}

func (s *ReaderSource) Substream(n uint64) (Source, error) {
	if n < substreamEagerThreshold {
		b, err := s.Read(n)
		if err != nil {
			return nil, err
		}
		return NewByteSource(b), nil
	}
	return &ReaderSource{lim: &io.LimitedReader{R: s.reader(), N: int64(n)}}, nil
}

// WriterSink adapts an io.Writer to Sink.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink wraps w for sequential writing.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteByte(b byte) error {
	_, err := s.w.Write([]byte{b})
	return err
}

func (s *WriterSink) Write(p []byte) error {
	_, err := s.w.Write(p)
	return err
}
