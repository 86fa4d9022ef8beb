package binary

import (
	"bytes"
	stderrors "errors"
	"math"
	"strings"
	"testing"

	"github.com/wippyai/rbuf/errors"
)

func TestWriterF64(t *testing.T) {
	w := NewWriter()
	w.WriteF64(123.456)
	want := []byte{0x77, 0xBE, 0x9F, 0x1A, 0x2F, 0xDD, 0x5E, 0x40}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("WriteF64: got % x, want % x", w.Bytes(), want)
	}
}

func TestWriterLength(t *testing.T) {
	tests := []struct {
		n    int
		want []byte
	}{
		{0, []byte{0}},
		{13, []byte{13}},
		{254, []byte{254}},
		{255, []byte{255, 0x00, 0x00, 0x00, 0x00, 0x00, 0xE0, 0x6F, 0x40}},
		{260, []byte{255, 0x00, 0x00, 0x00, 0x00, 0x00, 0x40, 0x70, 0x40}},
	}
	for _, tt := range tests {
		w := NewWriter()
		w.WriteLength(tt.n)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("WriteLength(%d): got % x, want % x", tt.n, w.Bytes(), tt.want)
		}
	}
}

func TestWriterName(t *testing.T) {
	w := NewWriter()
	w.WriteName("Hello, world!")
	w.WriteName("é")

	want := append([]byte{13}, "Hello, world!"...)
	want = append(want, 2, 0xC3, 0xA9)
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("WriteName: got % x, want % x", w.Bytes(), want)
	}
	if w.Len() != len(want) {
		t.Errorf("Len = %d, want %d", w.Len(), len(want))
	}
}

func TestWriterBuffer(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(7)
	w := NewWriterBuffer(&buf)
	w.Byte(8)
	w.WriteBytes([]byte{9})
	if !bytes.Equal(buf.Bytes(), []byte{7, 8, 9}) {
		t.Errorf("got %v", buf.Bytes())
	}
}

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(data)

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if r.Remaining() != 0 {
		t.Errorf("Remaining: got %d, want 0", r.Remaining())
	}

	_, err := r.ReadByte()
	if !stderrors.Is(err, errors.ErrBufferUnderrun) {
		t.Errorf("expected buffer underrun, got %v", err)
	}
}

func TestReaderReadBytes(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05})

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("ReadBytes: got %v, want [1 2 3]", got)
	}
	if r.Position() != 3 {
		t.Errorf("position: got %d, want 3", r.Position())
	}

	_, err = r.ReadBytes(10)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindBufferUnderrun || e.Offset != 3 {
		t.Errorf("expected underrun at offset 3, got %v", err)
	}
	if r.Position() != 3 {
		t.Errorf("failed read must not advance, position %d", r.Position())
	}
}

func TestReaderF64(t *testing.T) {
	w := NewWriter()
	for _, v := range []float64{0, -273, 1000, 123123.9123321, math.MaxFloat64, math.Inf(-1)} {
		w.WriteF64(v)
	}
	r := NewReader(w.Bytes())
	for _, want := range []float64{0, -273, 1000, 123123.9123321, math.MaxFloat64, math.Inf(-1)} {
		got, err := r.ReadF64()
		if err != nil {
			t.Fatal(err)
		}
		if math.Float64bits(got) != math.Float64bits(want) {
			t.Errorf("ReadF64: got %v, want %v", got, want)
		}
	}
	if _, err := r.ReadF64(); !stderrors.Is(err, errors.ErrBufferUnderrun) {
		t.Errorf("expected underrun, got %v", err)
	}
}

func TestReaderLength(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		r := NewReader([]byte{3, 'a', 'b', 'c'})
		n, err := r.ReadLength()
		if err != nil || n != 3 {
			t.Errorf("got %d, %v; want 3", n, err)
		}
	})

	t.Run("extended", func(t *testing.T) {
		w := NewWriter()
		w.WriteLength(300)
		w.WriteBytes(make([]byte, 300))
		r := NewReader(w.Bytes())
		n, err := r.ReadLength()
		if err != nil || n != 300 {
			t.Errorf("got %d, %v; want 300", n, err)
		}
		if r.Position() != 9 {
			t.Errorf("position %d, want 9", r.Position())
		}
	})

	t.Run("exceeds remaining", func(t *testing.T) {
		r := NewReader([]byte{5, 1, 2})
		_, err := r.ReadLength()
		if !stderrors.Is(err, errors.ErrBufferUnderrun) {
			t.Errorf("expected underrun, got %v", err)
		}
	})

	t.Run("huge extended", func(t *testing.T) {
		w := NewWriter()
		w.Byte(LengthEscape)
		w.WriteF64(1e300)
		r := NewReader(w.Bytes())
		_, err := r.ReadLength()
		if !stderrors.Is(err, errors.ErrBufferUnderrun) {
			t.Errorf("expected underrun, got %v", err)
		}
	})

	for _, bad := range []float64{-1, 2.5, math.NaN()} {
		w := NewWriter()
		w.Byte(LengthEscape)
		w.WriteF64(bad)
		r := NewReader(w.Bytes())
		_, err := r.ReadLength()
		if !stderrors.Is(err, errors.ErrInvalidLength) {
			t.Errorf("length %v: expected invalid length, got %v", bad, err)
		}
	}

	t.Run("truncated extended", func(t *testing.T) {
		r := NewReader([]byte{LengthEscape, 0, 0})
		_, err := r.ReadLength()
		if !stderrors.Is(err, errors.ErrBufferUnderrun) {
			t.Errorf("expected underrun, got %v", err)
		}
	})
}

func TestReaderName(t *testing.T) {
	w := NewWriter()
	long := strings.Repeat("Hello, world!", 20)
	w.WriteName("héllo")
	w.WriteName(long)
	w.WriteName("")

	r := NewReader(w.Bytes())
	for _, want := range []string{"héllo", long, ""} {
		got, err := r.ReadName()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("ReadName: got %q, want %q", got, want)
		}
	}
}

func TestDecodeLossy(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("plain"), "plain"},
		{[]byte{'a', 0xFF, 'b'}, "a�b"},
		{[]byte{0xFF}, "�"},
		{[]byte("日本"), "日本"},
	}
	for _, tt := range tests {
		if got := DecodeLossy(tt.in); got != tt.want {
			t.Errorf("DecodeLossy(% x) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
