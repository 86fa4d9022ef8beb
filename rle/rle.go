package rle

import (
	"github.com/wippyai/rbuf/errors"
)

// MaxRun is the longest zero run a single (0, n) pair can carry.
const MaxRun = 255

// Encode returns src with every run of zero bytes replaced by (0, n) pairs.
func Encode(src []byte) []byte {
	return AppendEncode(make([]byte, 0, EncodedLen(src)), src)
}

// AppendEncode appends the encoding of src to dst and returns the extended slice.
func AppendEncode(dst, src []byte) []byte {
	run := 0
	for _, b := range src {
		if b == 0 {
			run++
			if run == MaxRun {
				dst = append(dst, 0, MaxRun)
				run = 0
			}
			continue
		}
		if run != 0 {
			dst = append(dst, 0, byte(run))
			run = 0
		}
		dst = append(dst, b)
	}
	if run != 0 {
		dst = append(dst, 0, byte(run))
	}
	return dst
}

// EncodedLen returns the length of Encode(src) without encoding.
func EncodedLen(src []byte) int {
	n, run := 0, 0
	for _, b := range src {
		if b == 0 {
			run++
			if run == MaxRun {
				n += 2
				run = 0
			}
			continue
		}
		if run != 0 {
			n += 2
			run = 0
		}
		n++
	}
	if run != 0 {
		n += 2
	}
	return n
}

// Decode expands (0, n) pairs in src back into n zero bytes.
// A zero byte with no count after it is a buffer underrun.
func Decode(src []byte) ([]byte, error) {
	size, err := DecodedLen(src)
	if err != nil {
		return nil, err
	}
	return AppendDecode(make([]byte, 0, size), src)
}

// AppendDecode appends the decoding of src to dst and returns the extended slice.
func AppendDecode(dst, src []byte) ([]byte, error) {
	for i := 0; i < len(src); i++ {
		b := src[i]
		if b != 0 {
			dst = append(dst, b)
			continue
		}
		if i+1 >= len(src) {
			return dst, errors.BufferUnderrun(errors.PhaseRLE, i, 2, len(src)-i)
		}
		i++
		for n := src[i]; n > 0; n-- {
			dst = append(dst, 0)
		}
	}
	return dst, nil
}

// DecodedLen returns the length of Decode(src) without decoding.
func DecodedLen(src []byte) (int, error) {
	n := 0
	for i := 0; i < len(src); i++ {
		if src[i] != 0 {
			n++
			continue
		}
		if i+1 >= len(src) {
			return 0, errors.BufferUnderrun(errors.PhaseRLE, i, 2, len(src)-i)
		}
		i++
		n += int(src[i])
	}
	return n, nil
}
