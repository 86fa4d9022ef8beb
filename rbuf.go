package rbuf

import (
	"github.com/wippyai/rbuf/codec"
	"github.com/wippyai/rbuf/transcoder"
	"github.com/wippyai/rbuf/value"
)

// Serialize encodes a value tree into wire bytes.
func Serialize(v value.Value) []byte {
	return codec.Serialize(v)
}

// Deserialize decodes wire bytes into a value tree.
func Deserialize(wire []byte) (value.Value, error) {
	return codec.Deserialize(wire)
}

// Check validates the shape of wire bytes without decoding them.
func Check(wire []byte) error {
	return codec.CheckBuffer(wire)
}

// Marshal converts a Go value into a tree and encodes it.
func Marshal(v any) ([]byte, error) {
	tree, err := transcoder.FromGo(v)
	if err != nil {
		return nil, err
	}
	return codec.Serialize(tree), nil
}

// SerializeAny is Marshal that reports conversion failure as an empty buffer.
func SerializeAny(v any) []byte {
	wire, err := Marshal(v)
	if err != nil {
		return nil
	}
	return wire
}

// Unmarshal decodes wire bytes into plain Go values: bool, nil, float64,
// string, []any or map[string]any.
func Unmarshal(wire []byte) (any, error) {
	tree, err := codec.Deserialize(wire)
	if err != nil {
		return nil, err
	}
	return transcoder.ToGo(tree), nil
}

// UnmarshalInto decodes wire bytes and assigns the tree to target, which must be a pointer.
func UnmarshalInto(wire []byte, target any) error {
	tree, err := codec.Deserialize(wire)
	if err != nil {
		return err
	}
	return transcoder.Into(tree, target)
}
