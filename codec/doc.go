// Package codec implements the rbuf serializer and deserializer.
//
// # Wire Layout
//
// Each value is a tag byte followed by its payload:
//
//	Tag  Value   Payload
//	───────────────────────────────────────────────
//	0    false   none
//	1    true    none
//	2    null    none
//	3    number  8-byte little-endian double
//	4    string  length + UTF-8 bytes
//	5    array   length + that many values
//	6    object  length + that many (key, value) entries
//
// Lengths up to 254 take one byte. Larger lengths are the byte 255 followed
// by the length as a little-endian double. Object keys use the string
// layout without the tag byte.
//
// The tagged layout is then passed through package rle; what leaves
// Serialize is always compressed.
//
// # Decoding Flow
//
//  1. CheckBuffer(wire): cheap shape check on the compressed bytes
//  2. rle.Decode(wire) → tagged layout
//  3. recursive parse with bounds checks on every read
//
// Every failure is an *errors.Error carrying the byte offset into the
// buffer being read. Decoding is fail-fast and never returns partial trees.
//
// # Thread Safety
//
// Serialize, Deserialize, Encoder and Decoder keep no shared state and are
// safe for concurrent use. Scratch buffers come from a sync.Pool and never
// escape a call.
package codec
