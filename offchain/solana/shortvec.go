package solana

import "errors"

func encodeShortVecLen(n int) []byte {
	if n < 0 {
		panic("encodeShortVecLen: negative length")
	}
	v := uint64(n)
	out := make([]byte, 0, 4)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			out = append(out, b)
			break
		}
		out = append(out, b|0x80)
	}
	return out
}

func decodeShortVecLenAt(b []byte, off int) (int, int, error) {
	if off < 0 || off >= len(b) {
		return 0, off, errors.New("shortvec: out of bounds")
	}
	var out uint64
	var shift uint
	i := 0
	for {
		if off+i >= len(b) {
			return 0, off, errors.New("shortvec: truncated")
		}
		bt := b[off+i]
		out |= uint64(bt&0x7f) << shift
		i++
		if (bt & 0x80) == 0 {
			break
		}
		shift += 7
		if shift > 14 {
			// Lengths are capped at u16 on the wire.
			return 0, off, errors.New("shortvec: too long")
		}
	}
	if out > 0xffff {
		return 0, off, errors.New("shortvec: length overflows u16")
	}
	return int(out), off + i, nil
}
