// Package binary provides the byte-level primitives of the tagged layout:
// little-endian doubles, the one-or-nine byte length field, and
// length-prefixed UTF-8 names.
package binary
