package codec

import (
	stderrors "errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/rbuf/errors"
	"github.com/wippyai/rbuf/internal/binary"
	"github.com/wippyai/rbuf/rle"
	"github.com/wippyai/rbuf/value"
)

// DecoderOptions configures a Decoder. The zero value is the default.
type DecoderOptions struct {
	// MaxDepth bounds the nesting depth accepted from the wire; 0 means unbounded.
	// Set it when input is untrusted: recursion depth follows the input.
	MaxDepth int
}

// Decoder deserializes wire buffers. It holds only options and is safe for concurrent use.
type Decoder struct {
	opts DecoderOptions
}

// NewDecoder creates a Decoder with the given options.
func NewDecoder(opts DecoderOptions) *Decoder {
	return &Decoder{opts: opts}
}

var defaultDecoder = &Decoder{}

// Deserialize checks, decompresses and parses wire bytes produced by Serialize.
// The first error aborts the call; no partial value is returned.
func Deserialize(wire []byte) (value.Value, error) {
	return defaultDecoder.Decode(wire)
}

// DecodeTagged parses an uncompressed tagged layout produced by EncodeTagged.
func DecodeTagged(buf []byte) (value.Value, error) {
	return defaultDecoder.DecodeTagged(buf)
}

// Decode checks, decompresses and parses wire bytes.
func (d *Decoder) Decode(wire []byte) (value.Value, error) {
	if err := CheckBuffer(wire); err != nil {
		logFailure("check", len(wire), err)
		return nil, err
	}
	buf, err := rle.Decode(wire)
	if err != nil {
		logFailure("rle", len(wire), err)
		return nil, err
	}
	return d.DecodeTagged(buf)
}

// DecodeTagged parses an uncompressed tagged layout.
// Bytes left over after the root value are an InvalidLength error.
func (d *Decoder) DecodeTagged(buf []byte) (value.Value, error) {
	ds := deserializer{r: binary.NewReader(buf), maxDepth: d.opts.MaxDepth}
	v, err := ds.readValue(1)
	if err != nil {
		logFailure("parse", len(buf), err)
		return nil, err
	}
	if rest := ds.r.Remaining(); rest > 0 {
		err := errors.InvalidLength(errors.PhaseDecode, ds.r.Position(),
			strconv.Itoa(rest)+" trailing bytes after root value")
		logFailure("parse", len(buf), err)
		return nil, err
	}
	return v, nil
}

func logFailure(stage string, size int, err error) {
	fields := []zap.Field{
		zap.String("stage", stage),
		zap.Int("size", size),
		zap.Error(err),
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		fields = append(fields, zap.String("kind", string(e.Kind)), zap.Int("offset", e.Offset))
	}
	Logger().Debug("decode failed", fields...)
}

type deserializer struct {
	r        *binary.Reader
	maxDepth int
}

func (d *deserializer) readNumber() (value.Number, error) {
	f, err := d.r.ReadF64()
	return value.Number(f), err
}

func (d *deserializer) readString() (value.String, error) {
	s, err := d.r.ReadName()
	return value.String(s), err
}

func (d *deserializer) readArray(depth int) (value.Array, error) {
	n, err := d.r.ReadLength()
	if err != nil {
		return nil, err
	}
	arr := make(value.Array, 0, n)
	for i := 0; i < n; i++ {
		item, err := d.readValue(depth + 1)
		if err != nil {
			return nil, withPath(err, strconv.Itoa(i))
		}
		arr = append(arr, item)
	}
	return arr, nil
}

// readObject keeps the last value of a repeated key at the position where
// the key first appeared.
func (d *deserializer) readObject(depth int) (value.Object, error) {
	n, err := d.r.ReadLength()
	if err != nil {
		return nil, err
	}
	obj := make(value.Object, 0, n)
	var index map[string]int
	if n > 1 {
		index = make(map[string]int, n)
	}
	for i := 0; i < n; i++ {
		key, err := d.r.ReadName()
		if err != nil {
			return nil, withPath(err, strconv.Itoa(i))
		}
		item, err := d.readValue(depth + 1)
		if err != nil {
			return nil, withPath(err, key)
		}
		if index != nil {
			if at, ok := index[key]; ok {
				obj[at].Value = item
				continue
			}
			index[key] = len(obj)
		}
		obj = append(obj, value.Member{Key: key, Value: item})
	}
	return obj, nil
}

func (d *deserializer) readValue(depth int) (value.Value, error) {
	start := d.r.Position()
	if d.maxDepth > 0 && depth > d.maxDepth {
		return nil, errors.DepthExceeded(errors.PhaseDecode, start, d.maxDepth)
	}
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch value.Tag(b) {
	case value.TagFalse:
		return value.Boolean(false), nil
	case value.TagTrue:
		return value.Boolean(true), nil
	case value.TagNull:
		return value.Null{}, nil
	case value.TagNumber:
		return d.readNumber()
	case value.TagString:
		return d.readString()
	case value.TagArray:
		return d.readArray(depth)
	case value.TagObject:
		return d.readObject(depth)
	default:
		return nil, errors.InvalidType(errors.PhaseDecode, start, b)
	}
}
