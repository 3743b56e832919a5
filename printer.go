package extprot

import (
	"fmt"
	"os"
	"strings"
)

// The code for Dump and its supporting parts is not written with the same
// strict performance concerns as the rest of this package. It exists to
// give tooling (commandline utilities, log lines, debuggers) an
// easy-to-read rendering of a value, not to be on any hot path.

// Sdump returns a human-readable, indented rendering of data's structure,
// without needing the schema that produced it. Each line shows a value's
// tag, wire type, and payload bytes; composites print a header line
// followed by their indented children, exactly as Walk discovers them.
func Sdump(data []byte) string {
	return sdumpWithColors(data, terminaloutput)
}

// SdumpPlain is Sdump with color escapes always disabled, for output
// that may be redirected to a file or compared in a test.
func SdumpPlain(data []byte) string {
	return sdumpWithColors(data, false)
}

func sdumpWithColors(data []byte, useColors bool) string {
	var buf strings.Builder
	p := &dumpVisitor{buf: &buf, useColors: useColors}
	if err := Walk(data, p); err != nil {
		fmt.Fprintf(&buf, "  <error: %v>\n", err)
	}
	return buf.String()
}

// Dump prints Sdump's rendering of data to stdout.
func Dump(data []byte) {
	fmt.Print(Sdump(data))
}

type dumpVisitor struct {
	buf       *strings.Builder
	depth     int
	useColors bool
}

func (p *dumpVisitor) char(isLast bool) string {
	if isLast {
		return "└─"
	}
	return "├─"
}

func (p *dumpVisitor) VisitValue(tag uint64, wt WireType, raw []byte) error {
	label := fmt.Sprintf("[%d] %s", tag, wt)
	var value string
	if len(raw) > 0 {
		value = fmt.Sprintf("%v", raw)
	}
	fmt.Fprintf(p.buf, "   %v%v %v: %v\n",
		strings.Repeat("  ", p.depth), p.char(false),
		colorTextWithFlag(label, Purple, p.useColors), value)
	return nil
}

func (p *dumpVisitor) VisitCompositeStart(tag uint64, wt WireType, declaredItems uint64) error {
	label := fmt.Sprintf("[%d] %s (%d items)", tag, wt, declaredItems)
	fmt.Fprintf(p.buf, "   %v├─┐ %v\n", strings.Repeat("  ", p.depth), colorTextWithFlag(label, Blue, p.useColors))
	p.depth++
	return nil
}

func (p *dumpVisitor) VisitCompositeEnd(tag uint64, wt WireType) error {
	p.depth--
	return nil
}

var terminaloutput = func() bool {
	o, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (o.Mode() & os.ModeCharDevice) == os.ModeCharDevice
}()

const (
	Red    = "\033[91m"
	Orange = "\033[38;5;208m"
	Yellow = "\033[93m"
	Green  = "\033[92m"
	Blue   = "\033[94m"
	Purple = "\033[95m"
	Cyan   = "\033[96m"
	White  = "\033[97m"
	Reset  = "\033[0m"
)

func colorTextWithFlag(text, color string, useColors bool) string {
	if !useColors {
		return text
	}
	return color + text + Reset
}

// Document is a byte slice holding an encoded extprot value, with
// fmt.Stringer and fmt.Formatter implementations that render it with
// Sdump instead of as a raw byte dump. Useful for logging a value
// directly with %v/%s without manually calling Sdump first.
type Document []byte

func (d Document) String() string {
	if len(d) == 0 {
		return ""
	}
	return Sdump([]byte(d))
}

func (d Document) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		f.Write([]byte(d.String()))
	case 'v':
		if f.Flag('+') {
			fmt.Fprintf(f, "extprot document (hex: %x)\n%s", []byte(d), d.String())
		} else {
			f.Write([]byte(d.String()))
		}
	case 'x':
		fmt.Fprintf(f, "%x", []byte(d))
	case 'X':
		fmt.Fprintf(f, "%X", []byte(d))
	case 'q':
		fmt.Fprintf(f, "%q", []byte(d))
	default:
		fmt.Fprintf(f, "%%!%c(extprot.Document=%x)", verb, []byte(d))
	}
}
