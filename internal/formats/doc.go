// Package formats converts document formats to and from value trees for the CLI.
//
//	Format  Decode                               Encode
//	─────────────────────────────────────────────────────────────────────
//	json    encoding/json tokens, member order   indented, member order
//	jsonc   comments and trailing commas removed same as json
//	yaml    yaml.Node walk, member order         yaml.Node build, member order
//	cbor    fxamacker/cbor, keys sorted          core deterministic encoding
//
// YAML anchors and aliases are expanded and merge keys (<<) are applied.
// CBOR maps must have text keys.
package formats
