// Package rle implements the zero-run compression pass applied to every rbuf wire buffer.
//
// Tagged payloads are dominated by zero bytes: the FALSE tag, padding in
// 8-byte doubles, short length fields. Encode replaces each run of zeros with
// the pair (0, n), 1 <= n <= 255; longer runs are split into several pairs.
// Non-zero bytes pass through unchanged:
//
//	00 00 00 00 01 02   ->   00 04 01 02
//	256 x 00            ->   00 ff 00 01
//
// Decode is the exact inverse of Encode and also accepts any input where
// every zero byte is followed by a count, including (0, 0).
package rle
