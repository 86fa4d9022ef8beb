// Package transcoder converts between Go values and rbuf value trees.
//
// It is the boundary adapter around the codec: the codec only ever sees
// value.Value trees, and everything host-language shaped stays here.
//
//	┌──────────────────────────────────────────────────────────┐
//	│ Go value / JSON text ←→ [transcoder] ←→ value.Value      │
//	└──────────────────────────────────────────────────────────┘
//
// # Go to Value
//
// FromGo tests a Go value in a fixed order:
//
//	Check          Go input                          Result
//	─────────────────────────────────────────────────────────────
//	passthrough    value.Value                       unchanged
//	boolean        bool                              Boolean
//	string         string kinds                      String
//	null           nil, nil pointer/map/slice        Null
//	number         ints, uints, floats, json.Number  Number (finite only)
//	array-like     slices, arrays ([]byte included)  Array
//	object         map[string]T, structs             Object
//
// Maps are emitted in sorted key order. Struct fields follow declaration
// order and honour `json:"name,omitempty"` and `json:"-"`. Types with a
// MarshalJSON or MarshalText method go through that method. Funcs,
// channels, complex numbers and non-string map keys fail with a
// conversion error.
//
// # Value to Go
//
// ToGo produces the plain encoding/json shapes: bool, nil, float64,
// string, []any and map[string]any.
//
// Into assigns a tree to a typed target through a pointer. Mismatches are
// structure errors with the path to the node:
//
//	[convert] structure at items.2.id: Go type int - number 1.5 is not an integer
//
// # JSON Bridge
//
// FromJSON and ToJSON keep object member order, which a round trip through
// map[string]any would lose.
//
// # Type Compilation
//
// The Compiler computes one StructPlan per struct type (key, index path,
// omitempty) and caches it, so reflection over struct tags happens once per
// type.
//
// # Thread Safety
//
// Compiler and StructPlan are safe for concurrent use. The package-level
// functions share a default Compiler.
package transcoder
