package binary

import (
	"encoding/binary"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/rbuf/errors"
)

// Reader is a cursor over a fully decompressed tagged buffer.
// Every read is bounds checked; a short buffer is a BufferUnderrun.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errors.BufferUnderrun(errors.PhaseDecode, r.pos, 1, 0)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. The result aliases the underlying buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, errors.BufferUnderrun(errors.PhaseDecode, r.pos, n, r.Remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadF64 reads a little-endian IEEE-754 double (fixed 8 bytes).
func (r *Reader) ReadF64() (float64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf)), nil
}

// ReadLength reads a length field written by Writer.WriteLength.
//
// Every length counts units of at least one byte, so a length larger than
// the bytes left is reported as an underrun before anything is allocated.
// An extended length that is not a non-negative integer is InvalidLength.
func (r *Reader) ReadLength() (int, error) {
	start := r.pos
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b != LengthEscape {
		if int(b) > r.Remaining() {
			return 0, errors.BufferUnderrun(errors.PhaseDecode, r.pos, int(b), r.Remaining())
		}
		return int(b), nil
	}

	f, err := r.ReadF64()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < 0 || f != math.Trunc(f) {
		return 0, errors.New(errors.PhaseDecode, errors.KindInvalidLength).
			Offset(start).
			Value(f).
			Detail("extended length %v is not a non-negative integer", f).
			Build()
	}
	if f > float64(r.Remaining()) {
		return 0, errors.New(errors.PhaseDecode, errors.KindBufferUnderrun).
			Offset(r.pos).
			Value(f).
			Detail("need %v bytes, %d remaining", f, r.Remaining()).
			Build()
	}
	return int(f), nil
}

// ReadName reads a length-prefixed string written by Writer.WriteName.
// Invalid UTF-8 is not an error: ill-formed sequences decode as U+FFFD.
func (r *Reader) ReadName() (string, error) {
	n, err := r.ReadLength()
	if err != nil {
		return "", err
	}
	data, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return DecodeLossy(data), nil
}

// DecodeLossy converts UTF-8 bytes to a string, replacing ill-formed
// sequences with U+FFFD.
func DecodeLossy(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	// Decoders carry transform state and are not safe to share.
	out, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError))
	}
	return string(out)
}
