package extprot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// Concrete wire scenarios, byte-for-byte against the worked examples.
// Scenario 4's literal int byte is corrected from 0x0A to 0x14: every
// other worked example (including scenario 5's B{i=10}, encoding the
// very same logical value) and the formal zig-zag definition agree on
// 0x14, so the literal 0x0A is treated as a transcription slip rather
// than a second encoding rule (see DESIGN.md, Open Question decisions).

func TestScenarioBoolTrue(t *testing.T) {
	d := NewMessageDescriptor("Simple_bool", []string{"v"}, []Descriptor{BoolDescriptor{}})
	want := []byte{0x01, 0x03, 0x01, 0x00, 0x01}
	got, err := ToBytes(&Message{Descriptor: d, Values: []any{true}}, d)
	require.NoError(t, err)
	require.Equal(t, want, got)

	v, err := FromBytes(want, d)
	require.NoError(t, err)
	require.Equal(t, true, v.(*Message).Values[0])
}

func TestScenarioBoolFalse(t *testing.T) {
	d := NewMessageDescriptor("Simple_bool", []string{"v"}, []Descriptor{BoolDescriptor{}})
	want := []byte{0x01, 0x03, 0x01, 0x00, 0x00}
	got, err := ToBytes(&Message{Descriptor: d, Values: []any{false}}, d)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestScenarioInt(t *testing.T) {
	d := NewMessageDescriptor("Simple_int", []string{"v"}, []Descriptor{IntDescriptor{}})

	cases := []struct {
		v    int64
		want []byte
	}{
		{0, []byte{0x01, 0x03, 0x01, 0x00, 0x00}},
		{1, []byte{0x01, 0x03, 0x01, 0x00, 0x02}},
		{-1, []byte{0x01, 0x03, 0x01, 0x00, 0x01}},
		{64, []byte{0x01, 0x04, 0x01, 0x00, 0x80, 0x01}},
	}
	for _, c := range cases {
		got, err := ToBytes(&Message{Descriptor: d, Values: []any{c.v}}, d)
		require.NoError(t, err)
		require.Equal(t, c.want, got, "v=%d", c.v)

		decoded, err := FromBytes(c.want, d)
		require.NoError(t, err)
		require.Equal(t, c.v, decoded.(*Message).Values[0])
	}
}

func TestScenarioNestedTuple(t *testing.T) {
	inner := NewTupleDescriptor(IntDescriptor{}, BoolDescriptor{})
	d := NewMessageDescriptor("Simple_tuple", []string{"v"}, []Descriptor{inner})

	want := []byte{0x01, 0x08, 0x01, 0x01, 0x05, 0x02, 0x00, 0x14, 0x00, 0x01}
	got, err := ToBytes(&Message{Descriptor: d, Values: []any{[]any{int64(10), true}}}, d)
	require.NoError(t, err)
	require.Equal(t, want, got)

	decoded, err := FromBytes(want, d)
	require.NoError(t, err)
	require.Equal(t, []any{int64(10), true}, decoded.(*Message).Values[0])
}

func TestScenarioSum(t *testing.T) {
	sum := NewSumDescriptor("Msg_sum", []Constructor{
		{Name: "A", Tag: 0, Subtypes: []Descriptor{BoolDescriptor{}}},
		{Name: "B", Tag: 1, Subtypes: []Descriptor{IntDescriptor{}}},
	})

	a := &Variant{Descriptor: sum, Tag: 0, Fields: []any{false}}
	wantA := []byte{0x01, 0x03, 0x01, 0x00, 0x00}
	gotA, err := ToBytes(a, sum)
	require.NoError(t, err)
	require.Equal(t, wantA, gotA)

	b := &Variant{Descriptor: sum, Tag: 1, Fields: []any{int64(10)}}
	wantB := []byte{0x11, 0x03, 0x01, 0x00, 0x14}
	gotB, err := ToBytes(b, sum)
	require.NoError(t, err)
	require.Equal(t, wantB, gotB)

	decoded, err := FromBytes(wantB, sum)
	require.NoError(t, err)
	dv := decoded.(*Variant)
	require.Equal(t, uint64(1), dv.Tag)
	require.Equal(t, []any{int64(10)}, dv.Fields)
}

func TestScenarioEmptyString(t *testing.T) {
	d := NewMessageDescriptor("Simple_string", []string{"v"}, []Descriptor{StringDescriptor{}})
	want := []byte{0x01, 0x03, 0x01, 0x03, 0x00}
	got, err := ToBytes(&Message{Descriptor: d, Values: []any{""}}, d)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestScenarioLongString(t *testing.T) {
	d := NewMessageDescriptor("Simple_string", []string{"v"}, []Descriptor{StringDescriptor{}})
	payload := make([]byte, 128)
	want := append([]byte{0x01, 0x84, 0x01, 0x01, 0x03, 0x80, 0x01}, payload...)

	got, err := ToBytes(&Message{Descriptor: d, Values: []any{string(payload)}}, d)
	require.NoError(t, err)
	require.Equal(t, want, got)

	decoded, err := FromBytes(want, d)
	require.NoError(t, err)
	require.Equal(t, string(payload), decoded.(*Message).Values[0])
}

// Compatibility laws (spec.md §8).

func TestForwardCompatibilityExtraTrailingItemsSkipped(t *testing.T) {
	wide := NewTupleDescriptor(IntDescriptor{}, IntDescriptor{}, StringDescriptor{})
	narrow := NewTupleDescriptor(IntDescriptor{}, IntDescriptor{})

	encoded, err := ToBytes([]any{int64(1), int64(2), "extra"}, wide)
	require.NoError(t, err)

	got, err := FromBytes(encoded, narrow)
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), int64(2)}, got)
}

func TestBackwardCompatibilityMissingTrailingItemsDefault(t *testing.T) {
	narrow := NewTupleDescriptor(IntDescriptor{}, IntDescriptor{})
	wide := NewTupleDescriptor(IntDescriptor{}, IntDescriptor{}, StringDescriptor{}, BoolDescriptor{})

	encoded, err := ToBytes([]any{int64(7), int64(8)}, narrow)
	require.NoError(t, err)

	got, err := FromBytes(encoded, wide)
	require.NoError(t, err)
	require.Equal(t, []any{int64(7), int64(8), "", false}, got)
}

func TestPrimitivePromotionIntoTuple(t *testing.T) {
	d := NewTupleDescriptor(IntDescriptor{}, BoolDescriptor{}, StringDescriptor{})

	encoded, err := ToBytes(int64(42), IntDescriptor{})
	require.NoError(t, err)

	got, err := FromBytes(encoded, d)
	require.NoError(t, err)
	require.Equal(t, []any{int64(42), false, ""}, got)
}

func TestPrimitivePromotionIntoSum(t *testing.T) {
	sum := NewSumDescriptor("Wrapped", []Constructor{
		{Name: "Num", Tag: 0, Subtypes: []Descriptor{IntDescriptor{}, BoolDescriptor{}}},
	})

	encoded, err := ToBytes(int64(9), IntDescriptor{})
	require.NoError(t, err)

	got, err := FromBytes(encoded, sum)
	require.NoError(t, err)
	v := got.(*Variant)
	require.Equal(t, uint64(0), v.Tag)
	require.Equal(t, []any{int64(9), false}, v.Fields)
}

func TestPromotionFailsWithoutSubtypes(t *testing.T) {
	d := NewTupleDescriptor()
	encoded, err := ToBytes(int64(1), IntDescriptor{})
	require.NoError(t, err)

	_, err = FromBytes(encoded, d)
	require.ErrorIs(t, err, ErrParse)
}

func TestSkipPreservesCursor(t *testing.T) {
	d := NewTupleDescriptor(IntDescriptor{}, StringDescriptor{})
	encoded, err := ToBytes([]any{int64(5), "tail"}, d)
	require.NoError(t, err)

	src1 := NewByteSource(encoded)
	_, err = ReadValue(src1, d, DefaultLimits, true)
	require.NoError(t, err)
	afterRead := src1.pos

	src2 := NewByteSource(encoded)
	require.NoError(t, skipValue(src2, DefaultLimits))
	afterSkip := src2.pos

	require.Equal(t, afterRead, afterSkip)
}

func TestUnexpectedWireTypeOnUnknownSumTag(t *testing.T) {
	sum := NewSumDescriptor("Shape", []Constructor{{Name: "Circle", Tag: 0, Subtypes: []Descriptor{IntDescriptor{}}}})
	other := NewSumDescriptor("Shape2", []Constructor{{Name: "Square", Tag: 1, Subtypes: []Descriptor{IntDescriptor{}}}})

	encoded, err := ToBytes(&Variant{Descriptor: other, Tag: 1, Fields: []any{int64(1)}}, other)
	require.NoError(t, err)

	_, err = FromBytes(encoded, sum)
	require.ErrorIs(t, err, ErrUnexpectedWireType)
}

func TestFromSourceOverIOReader(t *testing.T) {
	d := NewTupleDescriptor(IntDescriptor{}, BoolDescriptor{})
	encoded, err := ToBytes([]any{int64(3), true}, d)
	require.NoError(t, err)

	got, err := FromSource(bytes.NewReader(encoded), d)
	require.NoError(t, err)
	require.Equal(t, []any{int64(3), true}, got)
}

func TestFromSourceCleanEOFOnEmptyReader(t *testing.T) {
	d := NewTupleDescriptor(IntDescriptor{})
	_, err := FromSource(bytes.NewReader(nil), d)
	require.ErrorIs(t, err, ErrEOF)
}

func TestToSinkOverIOWriter(t *testing.T) {
	d := NewTupleDescriptor(IntDescriptor{})
	var buf bytes.Buffer
	require.NoError(t, ToSink(&buf, []any{int64(99)}, d))

	got, err := FromBytes(buf.Bytes(), d)
	require.NoError(t, err)
	require.Equal(t, []any{int64(99)}, got)
}
