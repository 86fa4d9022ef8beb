package transcoder

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"math"
	"strconv"

	"github.com/wippyai/rbuf/errors"
	"github.com/wippyai/rbuf/value"
)

// FromJSON parses JSON text into a value tree, keeping object members in
// document order. Repeated keys are kept as they appear.
func FromJSON(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	p := jsonParser{dec: dec}
	v, err := p.parse(nil)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.PhaseConvert, errors.KindInvalidInput).
			Offset(int(dec.InputOffset())).
			Cause(err).
			Detail("trailing data after JSON value").
			Build()
	}
	return v, nil
}

type jsonParser struct {
	dec *json.Decoder
}

func (p *jsonParser) token() (json.Token, error) {
	tok, err := p.dec.Token()
	if err == nil {
		return tok, nil
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	var syntax *json.SyntaxError
	offset := int(p.dec.InputOffset())
	if stderrors.As(err, &syntax) {
		offset = int(syntax.Offset)
	}
	return nil, errors.New(errors.PhaseConvert, errors.KindInvalidInput).
		Offset(offset).
		Cause(err).
		Detail("invalid JSON").
		Build()
}

func (p *jsonParser) parse(path []string) (value.Value, error) {
	tok, err := p.token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Boolean(t), nil
	case string:
		return value.String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, errors.New(errors.PhaseConvert, errors.KindConversion).
				Path(copyPath(path)...).
				Offset(int(p.dec.InputOffset())).
				Cause(err).
				Detail("number %s out of range", t).
				Build()
		}
		return value.Number(f), nil
	case json.Delim:
		switch t {
		case '[':
			arr := value.Array{}
			for i := 0; p.dec.More(); i++ {
				item, err := p.parse(append(path, strconv.Itoa(i)))
				if err != nil {
					return nil, err
				}
				arr = append(arr, item)
			}
			_, err := p.token()
			return arr, err
		case '{':
			obj := value.Object{}
			for p.dec.More() {
				keyTok, err := p.token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				item, err := p.parse(append(path, key))
				if err != nil {
					return nil, err
				}
				obj = append(obj, value.Member{Key: key, Value: item})
			}
			_, err := p.token()
			return obj, err
		}
	}
	return nil, errors.New(errors.PhaseConvert, errors.KindInvalidInput).
		Offset(int(p.dec.InputOffset())).
		Detail("unexpected token %v", tok).
		Build()
}

// ToJSON renders a value tree as compact JSON, members in tree order.
// Non-finite numbers have no JSON form and fail with a conversion error.
func ToJSON(v value.Value) ([]byte, error) {
	buf := getBuf()
	defer putBuf(buf)

	w := newJSONWriter(buf)
	if err := w.write(v, nil); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// ToJSONIndent is ToJSON followed by json.Indent with the given indent string.
func ToJSONIndent(v value.Value, indent string) ([]byte, error) {
	raw, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", indent); err != nil {
		return nil, errors.Wrap(errors.PhaseConvert, errors.KindInvalidInput, err, "indent JSON")
	}
	return out.Bytes(), nil
}

type jsonWriter struct {
	buf *bytes.Buffer
	enc *json.Encoder
}

func newJSONWriter(buf *bytes.Buffer) *jsonWriter {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &jsonWriter{buf: buf, enc: enc}
}

// scalar writes x through encoding/json, dropping the newline Encode appends.
func (w *jsonWriter) scalar(x any) {
	_ = w.enc.Encode(x)
	w.buf.Truncate(w.buf.Len() - 1)
}

func (w *jsonWriter) write(v value.Value, path []string) error {
	switch t := v.(type) {
	case value.Boolean:
		if t {
			w.buf.WriteString("true")
		} else {
			w.buf.WriteString("false")
		}
	case value.Number:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.New(errors.PhaseConvert, errors.KindConversion).
				Path(copyPath(path)...).
				Value(f).
				Detail("non-finite number %v has no JSON form", f).
				Build()
		}
		w.scalar(f)
	case value.String:
		w.scalar(string(t))
	case value.Array:
		w.buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			if err := w.write(item, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		w.buf.WriteByte(']')
	case value.Object:
		w.buf.WriteByte('{')
		for i, m := range t {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.scalar(m.Key)
			w.buf.WriteByte(':')
			if err := w.write(m.Value, append(path, m.Key)); err != nil {
				return err
			}
		}
		w.buf.WriteByte('}')
	default:
		w.buf.WriteString("null")
	}
	return nil
}
