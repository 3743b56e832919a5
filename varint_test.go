package extprot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarintEdgeCases(t *testing.T) {
	cases := []struct {
		n    int64
		want []byte
	}{
		{0, []byte{0x00}},
		{63, []byte{0x7E}},
		{-1, []byte{0x01}},
		{64, []byte{0x80, 0x01}},
		{-64, []byte{0x7F}},
	}

	for _, c := range cases {
		got := appendUvarint(nil, encodeZigzag(c.n))
		require.Equal(t, c.want, got, "encoding %d", c.n)

		src := NewByteSource(c.want)
		u, err := decodeUvarint(src, DefaultLimits)
		require.NoError(t, err)
		require.Equal(t, c.n, decodeZigzag(u))
	}
}

func TestUnsignedVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<63 - 1, 1<<64 - 1}
	for _, v := range values {
		b := appendUvarint(nil, v)
		src := NewByteSource(b)
		got, err := decodeUvarint(src, DefaultLimits)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.True(t, src.AtEOF())
	}
}

func TestSignedZigzagRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 1000000, -1000000, 1<<62 - 1, -(1 << 62)}
	for _, v := range values {
		u := encodeZigzag(v)
		require.Equal(t, v, decodeZigzag(u))
	}
}

func TestVarintLengthBounds(t *testing.T) {
	require.Len(t, appendUvarint(nil, 0), 1)
	require.Len(t, appendUvarint(nil, 127), 1)
	require.Len(t, appendUvarint(nil, 128), 2)
	require.Len(t, appendUvarint(nil, 16383), 2)
	require.Len(t, appendUvarint(nil, 16384), 3)
}

func TestDecodePrefixVarintCleanEOF(t *testing.T) {
	src := NewByteSource(nil)
	_, err := decodePrefixVarint(src, DefaultLimits)
	require.ErrorIs(t, err, ErrEOF)
}

func TestDecodeUvarintMidStructureEOF(t *testing.T) {
	src := NewByteSource(nil)
	_, err := decodeUvarint(src, DefaultLimits)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestDecodeUvarintTruncatedMultiByte(t *testing.T) {
	// 0x80 alone always asks for a continuation byte that never comes.
	src := NewByteSource([]byte{0x80})
	_, err := decodeUvarint(src, DefaultLimits)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestVarintExceedsMaxBytes(t *testing.T) {
	limits := Limits{MaxVarintBytes: 2}
	src := NewByteSource([]byte{0x80, 0x80, 0x80, 0x01})
	_, err := decodeUvarint(src, limits)
	require.ErrorIs(t, err, ErrParse)
}
