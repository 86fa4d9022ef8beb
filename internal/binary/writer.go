package binary

import (
	"bytes"
	"encoding/binary"
	"math"
)

// LengthEscape is the length-field byte announcing an 8-byte double length.
const LengthEscape = 255

// MaxShortLength is the largest length stored in a single byte.
const MaxShortLength = 254

// Writer provides append-only writing utilities for the tagged layout.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// NewWriterBuffer creates a Writer appending to buf.
func NewWriterBuffer(buf *bytes.Buffer) *Writer {
	return &Writer{buf: buf}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteF64 writes a little-endian IEEE-754 double (fixed 8 bytes).
func (w *Writer) WriteF64(v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	w.buf.Write(buf[:])
}

// WriteLength writes a length field: one byte up to 254, otherwise
// the escape byte 255 followed by n as a little-endian double.
func (w *Writer) WriteLength(n int) {
	if n <= MaxShortLength {
		w.buf.WriteByte(byte(n))
		return
	}
	w.buf.WriteByte(LengthEscape)
	w.WriteF64(float64(n))
}

// WriteName writes a length-prefixed UTF-8 string with no tag.
// The length field counts bytes.
func (w *Writer) WriteName(s string) {
	w.WriteLength(len(s))
	w.buf.WriteString(s)
}
