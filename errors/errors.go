package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // Value to tagged bytes
	PhaseDecode   Phase = "decode"   // tagged bytes to Value
	PhaseRLE      Phase = "rle"      // zero-run compression
	PhaseValidate Phase = "validate" // wire buffer pre-check
	PhaseConvert  Phase = "convert"  // Go value to/from Value
	PhaseHost     Phase = "host"     // WASM host functions
	PhaseFormat   Phase = "format"   // document formats (json, yaml, cbor)
)

// Kind categorizes the error
type Kind string

const (
	KindConversion     Kind = "conversion"
	KindBufferUnderrun Kind = "buffer_underrun"
	KindInvalidType    Kind = "invalid_type"
	KindInvalidLength  Kind = "invalid_length"
	KindStructure      Kind = "structure"
	KindDepthExceeded  Kind = "depth_exceeded"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindInvalidInput   Kind = "invalid_input"
)

// Kind sentinels match any error of that kind, whatever the phase:
//
//	errors.Is(err, errors.ErrBufferUnderrun)
var (
	ErrConversion     = &Error{Kind: KindConversion}
	ErrBufferUnderrun = &Error{Kind: KindBufferUnderrun}
	ErrInvalidType    = &Error{Kind: KindInvalidType}
	ErrInvalidLength  = &Error{Kind: KindInvalidLength}
	ErrStructure      = &Error{Kind: KindStructure}
	ErrDepthExceeded  = &Error{Kind: KindDepthExceeded}
)

// NoOffset marks an error that is not tied to a byte position.
const NoOffset = -1

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset >= 0 {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteByte(')')
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: NoOffset,
		},
	}
}

// Path sets the element path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset in the buffer being decoded
func (b *Builder) Offset(offset int) *Builder {
	b.err.Offset = offset
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// BufferUnderrun creates an error for a field that needs more bytes than remain
func BufferUnderrun(phase Phase, offset, need, remaining int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBufferUnderrun,
		Offset: offset,
		Detail: fmt.Sprintf("need %d bytes, %d remaining", need, remaining),
		Value:  need,
	}
}

// InvalidType creates an error for a byte outside the tag table
func InvalidType(phase Phase, offset int, tag byte) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidType,
		Offset: offset,
		Detail: fmt.Sprintf("invalid type: %d", tag),
		Value:  tag,
	}
}

// InvalidLength creates an error for a buffer or length field with the wrong shape
func InvalidLength(phase Phase, offset int, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidLength,
		Offset: offset,
		Detail: detail,
	}
}

// Conversion creates an error for a Go value that has no Value representation
func Conversion(path []string, goType, detail string) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindConversion,
		Path:   path,
		GoType: goType,
		Offset: NoOffset,
		Detail: detail,
	}
}

// Structure creates an error for decoded data that cannot be assembled into the target
func Structure(path []string, goType, detail string) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindStructure,
		Path:   path,
		GoType: goType,
		Offset: NoOffset,
		Detail: detail,
	}
}

// DepthExceeded creates an error for a tree nested deeper than the configured limit
func DepthExceeded(phase Phase, offset, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepthExceeded,
		Offset: offset,
		Detail: fmt.Sprintf("nesting exceeds max depth %d", limit),
		Value:  limit,
	}
}

// OutOfBounds creates an error for a guest memory range outside linear memory
func OutOfBounds(phase Phase, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Offset: NoOffset,
		Detail: fmt.Sprintf("range offset=%d length=%d out of bounds", offset, length),
		Value:  offset,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: NoOffset,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: NoOffset,
		Detail: detail,
		Cause:  cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
