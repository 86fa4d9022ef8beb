package codec

import (
	"github.com/wippyai/rbuf/errors"
	"github.com/wippyai/rbuf/value"
)

// CheckBuffer validates the shape of a compressed wire buffer before decompression.
//
// RLE leaves the non-zero TRUE and NULL tags untouched and always turns a
// lone FALSE tag into (0, 1), so those three roots have exactly one valid
// wire form. Numbers, strings, arrays and objects are left to the parser.
func CheckBuffer(wire []byte) error {
	if len(wire) == 0 {
		return errors.InvalidLength(errors.PhaseValidate, 0, "empty buffer")
	}

	tag := value.Tag(wire[0])
	switch tag {
	case value.TagTrue, value.TagNull:
		if len(wire) != 1 {
			return errors.New(errors.PhaseValidate, errors.KindInvalidLength).
				Offset(1).
				Value(len(wire)).
				Detail("%s must be a single byte, got %d bytes", tag, len(wire)).
				Build()
		}
	case value.TagFalse:
		if len(wire) != 2 || wire[1] != 1 {
			return errors.New(errors.PhaseValidate, errors.KindInvalidLength).
				Offset(1).
				Value(len(wire)).
				Detail("false must be encoded as [0 1], got % x", wire[:min(len(wire), 8)]).
				Build()
		}
	default:
		if !tag.Valid() {
			return errors.InvalidType(errors.PhaseValidate, 0, wire[0])
		}
	}
	return nil
}
