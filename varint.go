package extprot

// Varint codec: unsigned little-endian base-128 integers with a
// continuation bit in the MSB of each byte, and the zig-zag mapping used
// to keep small-magnitude signed values short.
//
// decodeUvarint reads an internal varint — one that can never be the
// clean end-of-stream between top-level values, such as a length or a
// signed int payload. A failure to read even the first byte is reported
// as ErrUnexpectedEOF, not ErrEOF.
func decodeUvarint(src Source, limits Limits) (uint64, error) {
	v, _, err := readUvarint(src, limits, false)
	return v, err
}

// decodePrefixVarint reads the leading prefix varint of a value. Failing
// to read even the first byte here is the clean, expected end of a
// sequence of values and is reported as ErrEOF.
func decodePrefixVarint(src Source, limits Limits) (uint64, error) {
	v, _, err := readUvarint(src, limits, true)
	return v, err
}

func readUvarint(src Source, limits Limits, eofIfEmpty bool) (uint64, uint, error) {
	var v uint64
	var shift uint
	var n uint

	for {
		b, err := src.ReadByte()
		if err != nil {
			if n == 0 && eofIfEmpty {
				return 0, 0, ErrEOF
			}
			return 0, n, unexpectedEOFf("varint truncated after %d byte(s)", n)
		}
		n++
		if limits.MaxVarintBytes > 0 && n > limits.MaxVarintBytes {
			return 0, n, parseErrorf("varint longer than %d bytes", limits.MaxVarintBytes)
		}
		if b&0x80 == 0 {
			v |= uint64(b) << shift
			return v, n, nil
		}
		v |= uint64(b&0x7F) << shift
		shift += 7
	}
}

// encodeZigzag maps a signed integer to an unsigned one, keeping
// small-magnitude values short: n>=0 -> 2n, n<0 -> 2|n|-1.
func encodeZigzag(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

// decodeZigzag inverts encodeZigzag.
func decodeZigzag(u uint64) int64 {
	if u&1 == 1 {
		return -int64(u>>1) - 1
	}
	return int64(u >> 1)
}
