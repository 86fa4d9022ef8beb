// Package errors provides structured error types for the rbuf codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: byte offset, element path, Go type name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidType).
//		Offset(12).
//		Detail("invalid type: %d", 9).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.BufferUnderrun(errors.PhaseDecode, 4, 8, 3)
//	err := errors.Conversion(path, "func()", "functions cannot be encoded")
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match on kind alone, regardless of phase.
package errors
