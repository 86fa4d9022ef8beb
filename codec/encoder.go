package codec

import (
	"bytes"
	"strconv"

	"github.com/wippyai/rbuf/errors"
	"github.com/wippyai/rbuf/internal/binary"
	"github.com/wippyai/rbuf/rle"
	"github.com/wippyai/rbuf/value"
)

// EncoderOptions configures an Encoder. The zero value is the default.
type EncoderOptions struct {
	// MaxDepth bounds the nesting depth of encoded trees; 0 means unbounded.
	// A scalar or empty container has depth 1.
	MaxDepth int
}

// Encoder serializes value trees. It holds only options and is safe for concurrent use.
type Encoder struct {
	opts EncoderOptions
}

// NewEncoder creates an Encoder with the given options.
func NewEncoder(opts EncoderOptions) *Encoder {
	return &Encoder{opts: opts}
}

// Serialize encodes v and returns the RLE-compressed wire bytes.
// It cannot fail: nil values inside containers are written as null.
func Serialize(v value.Value) []byte {
	buf := getBuf()
	defer putBuf(buf)

	s := serializer{w: binary.NewWriterBuffer(buf)}
	_ = s.writeValue(v, 1)
	return rle.Encode(buf.Bytes())
}

// EncodeTagged returns the uncompressed tagged layout of v.
func EncodeTagged(v value.Value) []byte {
	w := binary.NewWriter()
	s := serializer{w: w}
	_ = s.writeValue(v, 1)
	return w.Bytes()
}

// Encode encodes v and returns the wire bytes. Unlike Serialize it rejects
// nil values and trees deeper than MaxDepth.
func (e *Encoder) Encode(v value.Value) ([]byte, error) {
	buf := getBuf()
	defer putBuf(buf)

	if err := e.write(buf, v); err != nil {
		return nil, err
	}
	return rle.Encode(buf.Bytes()), nil
}

// EncodeTagged is Encode without the RLE pass.
func (e *Encoder) EncodeTagged(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.write(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) write(buf *bytes.Buffer, v value.Value) error {
	s := serializer{
		w:        binary.NewWriterBuffer(buf),
		maxDepth: e.opts.MaxDepth,
		strict:   true,
	}
	return s.writeValue(v, 1)
}

type serializer struct {
	w        *binary.Writer
	maxDepth int
	strict   bool
}

func (s *serializer) writeBoolean(b value.Boolean) {
	s.w.Byte(byte(b.Tag()))
}

func (s *serializer) writeNull() {
	s.w.Byte(byte(value.TagNull))
}

func (s *serializer) writeNumber(n value.Number) {
	s.w.Byte(byte(value.TagNumber))
	s.w.WriteF64(float64(n))
}

func (s *serializer) writeString(str value.String) {
	s.w.Byte(byte(value.TagString))
	s.w.WriteName(string(str))
}

func (s *serializer) writeArray(a value.Array, depth int) error {
	s.w.Byte(byte(value.TagArray))
	s.w.WriteLength(len(a))
	for i, item := range a {
		if err := s.writeValue(item, depth+1); err != nil {
			return withPath(err, strconv.Itoa(i))
		}
	}
	return nil
}

func (s *serializer) writeObject(o value.Object, depth int) error {
	s.w.Byte(byte(value.TagObject))
	s.w.WriteLength(len(o))
	for _, m := range o {
		// Keys carry no tag.
		s.w.WriteName(m.Key)
		if err := s.writeValue(m.Value, depth+1); err != nil {
			return withPath(err, m.Key)
		}
	}
	return nil
}

func (s *serializer) writeValue(v value.Value, depth int) error {
	if s.maxDepth > 0 && depth > s.maxDepth {
		return errors.DepthExceeded(errors.PhaseEncode, s.w.Len(), s.maxDepth)
	}
	switch t := v.(type) {
	case value.Boolean:
		s.writeBoolean(t)
	case value.Null:
		s.writeNull()
	case value.Number:
		s.writeNumber(t)
	case value.String:
		s.writeString(t)
	case value.Array:
		return s.writeArray(t, depth)
	case value.Object:
		return s.writeObject(t, depth)
	default:
		if s.strict {
			return errors.New(errors.PhaseEncode, errors.KindConversion).
				Detail("nil value").
				Build()
		}
		s.writeNull()
	}
	return nil
}

// withPath prepends seg to the path of a structured error on its way up the tree.
func withPath(err error, seg string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Path = append([]string{seg}, e.Path...)
	}
	return err
}
