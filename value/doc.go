// Package value defines the value tree carried by the rbuf wire format and its tag table.
//
// A Value is one of six variants:
//
//	Boolean   true / false        tag 1 / 0
//	Null      null                tag 2
//	Number    float64             tag 3
//	String    UTF-8 text          tag 4
//	Array     []Value             tag 5
//	Object    ordered []Member    tag 6
//
// Trees own their children. Nothing in the format carries identity, so a
// value reachable twice from the root is encoded twice and decodes as two
// independent copies.
package value
