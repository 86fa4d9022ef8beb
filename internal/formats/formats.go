package formats

import (
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/wippyai/rbuf/errors"
	"github.com/wippyai/rbuf/transcoder"
	"github.com/wippyai/rbuf/value"
)

// Format names a document format.
type Format string

const (
	JSON  Format = "json"
	JSONC Format = "jsonc"
	YAML  Format = "yaml"
	CBOR  Format = "cbor"
)

// All lists the supported formats in help order.
var All = []Format{JSON, JSONC, YAML, CBOR}

// Parse resolves a format name. "yml" is accepted for YAML.
func Parse(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case JSON, JSONC, YAML, CBOR:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", errors.InvalidInput(errors.PhaseFormat,
		fmt.Sprintf("unknown format %q (want one of %s)", name, names()))
}

// Binary reports whether the format's encoded form is not text.
func (f Format) Binary() bool {
	return f == CBOR
}

// Decode parses a document into a value tree.
func Decode(f Format, data []byte) (value.Value, error) {
	switch f {
	case JSON:
		return fromJSON(data)
	case JSONC:
		return fromJSON(jsonc.ToJSON(data))
	case YAML:
		return decodeYAML(data)
	case CBOR:
		return decodeCBOR(data)
	}
	return nil, unknown(f)
}

// Encode renders a value tree as a document.
func Encode(f Format, v value.Value) ([]byte, error) {
	switch f {
	case JSON, JSONC:
		out, err := transcoder.ToJSONIndent(v, "  ")
		if err != nil {
			return nil, errors.Wrap(errors.PhaseFormat, errors.KindConversion, err, "encode json")
		}
		return append(out, '\n'), nil
	case YAML:
		return encodeYAML(v)
	case CBOR:
		return encodeCBOR(v)
	}
	return nil, unknown(f)
}

func fromJSON(data []byte) (value.Value, error) {
	v, err := transcoder.FromJSON(data)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseFormat, errors.KindInvalidInput, err, "parse json")
	}
	return v, nil
}

func unknown(f Format) error {
	return errors.InvalidInput(errors.PhaseFormat, fmt.Sprintf("unknown format %q", string(f)))
}

func names() string {
	parts := make([]string, len(All))
	for i, f := range All {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
