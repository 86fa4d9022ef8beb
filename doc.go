// Package rbuf provides a compact tagged binary format for JSON-like value trees.
//
// A tree of booleans, null, numbers, strings, arrays and objects is written as
// a byte stream of type tags and payloads, then passed through a zero-run
// compressor. The result is the wire format; Deserialize reverses both steps
// and rebuilds an equal tree.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	rbuf/                Root package with the public entry points
//	├── value/           The value tree: Boolean, Null, Number, String, Array, Object
//	├── codec/           Tagged serializer, deserializer and buffer shape check
//	├── rle/             Zero-run length encoding
//	├── transcoder/      Go values and JSON text ←→ value trees
//	├── wasmhost/        The codec as a wazero host module for WebAssembly guests
//	├── errors/          Structured error types for debugging
//	├── internal/binary/ Little-endian reader and writer for the tagged layout
//	├── internal/formats Document formats for the CLI (json, jsonc, yaml, cbor)
//	└── cmd/rbuf/        Command line encoder, decoder and inspector
//
// # Quick Start
//
// Encode any Go value:
//
//	wire, err := rbuf.Marshal(map[string]any{"key": []any{1000.0}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// wire: 06 01 03 6b 65 79 05 01 03 00 05 40 8f 40
//
// Decode it back:
//
//	var out struct {
//	    Key []float64 `json:"key"`
//	}
//	if err := rbuf.UnmarshalInto(wire, &out); err != nil {
//	    log.Fatal(err)
//	}
//
// Work with value trees directly when member order matters:
//
//	v := value.Obj("z", value.Num(1), "a", value.Bool(true))
//	wire := rbuf.Serialize(v)
//	back, err := rbuf.Deserialize(wire)
//
// # Failure Policy
//
// Serialize cannot fail. Marshal returns a conversion error for Go values with
// no tree form (NaN, funcs, channels, non-string map keys); SerializeAny
// swallows that error and returns an empty buffer instead. Deserialize and the
// Unmarshal functions fail fast on the first malformed byte and never return a
// partial tree.
//
// # Thread Safety
//
// All functions are safe for concurrent use.
package rbuf
