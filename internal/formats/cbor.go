package formats

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/rbuf/errors"
	"github.com/wippyai/rbuf/transcoder"
	"github.com/wippyai/rbuf/value"
)

// encMode uses Core Deterministic Encoding: sorted map keys, shortest
// numbers, no indefinite-length items.
var encMode cbor.EncMode

// decMode decodes any-typed maps as map[string]any.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("formats: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("formats: CBOR decoder initialization failed: " + err.Error())
	}
}

func decodeCBOR(data []byte) (value.Value, error) {
	var doc any
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.PhaseFormat, errors.KindInvalidInput, err, "parse cbor")
	}
	v, err := transcoder.FromGo(doc)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseFormat, errors.KindConversion, err, "convert cbor")
	}
	return v, nil
}

func encodeCBOR(v value.Value) ([]byte, error) {
	out, err := encMode.Marshal(transcoder.ToGo(v))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseFormat, errors.KindConversion, err, "encode cbor")
	}
	return out, nil
}
