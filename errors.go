package extprot

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the codec. Callers should compare against
// these with errors.Is; the codec never retries or swallows an error
// internally once one of these is produced.
var (
	// ErrEOF signals a clean end between top-level values: the source had
	// no more bytes when a new value was expected.
	ErrEOF = errors.New("extprot: no more values to read")

	// ErrUnexpectedEOF signals the stream ended in the middle of a value.
	ErrUnexpectedEOF = errors.New("extprot: unexpected end of stream")

	// ErrUnexpectedWireType signals a prefix whose (wire type, tag) a
	// descriptor does not accept at this position, or an unknown sum
	// constructor tag.
	ErrUnexpectedWireType = errors.New("extprot: unexpected wire type")

	// ErrParse signals well-formed bytes that are semantically invalid,
	// e.g. promotion attempted against a descriptor with no subtypes.
	ErrParse = errors.New("extprot: parse error")

	// ErrUndefinedDefault signals DefaultValue() requested for a
	// descriptor with no defined default.
	ErrUndefinedDefault = errors.New("extprot: type has no default value")
)

func unexpectedEOFf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUnexpectedEOF}, args...)...)
}

func unexpectedWireTypef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUnexpectedWireType}, args...)...)
}

func parseErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrParse}, args...)...)
}

func undefinedDefaultf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUndefinedDefault}, args...)...)
}
