package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode       Phase = "decode"        // top-level class file layout
	PhaseConstantPool Phase = "constant_pool" // pool entry decoding
	PhaseResolve      Phase = "resolve"       // constant name resolution
	PhaseDescriptor   Phase = "descriptor"    // type descriptor parsing
	PhaseAttribute    Phase = "attribute"     // attribute bodies
	PhaseDisassemble  Phase = "disassemble"   // bytecode decoding
	PhaseLoad         Phase = "load"          // input acquisition (CLI)
)

// Kind categorizes the error
type Kind string

const (
	KindUnexpectedEOF       Kind = "unexpected_end_of_input"
	KindUnknownConstantTag  Kind = "unknown_constant_tag"
	KindDanglingReference   Kind = "dangling_constant_reference"
	KindUnknownOpcode       Kind = "unknown_opcode"
	KindMalformedDescriptor Kind = "malformed_descriptor"
	KindInvalidData         Kind = "invalid_data"
	KindInvalidInput        Kind = "invalid_input"
)

// Sentinels for errors.Is matching by Kind alone.
var (
	ErrUnexpectedEOF       = &Error{Kind: KindUnexpectedEOF}
	ErrUnknownConstantTag  = &Error{Kind: KindUnknownConstantTag}
	ErrDanglingReference   = &Error{Kind: KindDanglingReference}
	ErrUnknownOpcode       = &Error{Kind: KindUnknownOpcode}
	ErrMalformedDescriptor = &Error{Kind: KindMalformedDescriptor}
	ErrInvalidData         = &Error{Kind: KindInvalidData}
)

// NoOffset marks an error that is not tied to a position in the input.
const NoOffset = -1

// Error is the structured error type used throughout the decoder
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
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
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
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
// A target without a Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase == "" {
			return e.Kind == t.Kind
		}
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
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

// Path sets the structure path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset in the input buffer
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
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

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Within prepends a path segment to a structured error as it propagates
// outwards. Other errors are returned unchanged.
func Within(err error, segment string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		e.Path = append([]string{segment}, e.Path...)
	}
	return err
}

// Convenience constructors for common error patterns

// UnexpectedEOF creates an error for a read of need bytes at offset when only
// have bytes remain.
func UnexpectedEOF(phase Phase, offset, need, have int) *Error {
	return New(phase, KindUnexpectedEOF).
		Offset(offset).
		Detail("need %d bytes, %d remaining", need, have).
		Build()
}

// UnknownConstantTag creates an error for an unrecognized pool tag byte
func UnknownConstantTag(offset int, tag uint8) *Error {
	return New(PhaseConstantPool, KindUnknownConstantTag).
		Offset(offset).
		Value(tag).
		Detail("tag %d is not a known constant kind", tag).
		Build()
}

// DanglingReference creates an error for a pool index that does not address
// a decoded entry.
func DanglingReference(phase Phase, index int, offset int) *Error {
	return New(phase, KindDanglingReference).
		Offset(offset).
		Value(index).
		Detail("constant pool index #%d does not address an entry", index).
		Build()
}

// UnknownOpcode creates an error for an unrecognized bytecode
func UnknownOpcode(offset int, op uint8, detail string) *Error {
	b := New(PhaseDisassemble, KindUnknownOpcode).Offset(offset).Value(op)
	if detail == "" {
		return b.Detail("opcode 0x%02x is not defined", op).Build()
	}
	return b.Detail("%s", detail).Build()
}

// MalformedDescriptor creates an error for a descriptor that cannot be parsed.
// pos is the character position inside the descriptor.
func MalformedDescriptor(desc string, pos int, detail string) *Error {
	return New(PhaseDescriptor, KindMalformedDescriptor).
		Value(desc).
		Detail("%q at %d: %s", desc, pos, detail).
		Build()
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, offset int, detail string) *Error {
	return New(phase, KindInvalidData).Offset(offset).Detail("%s", detail).Build()
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return New(phase, KindInvalidInput).Detail("%s", detail).Build()
}

// Load creates an input loading error
func Load(detail string, cause error) *Error {
	return New(PhaseLoad, KindInvalidInput).Detail("%s", detail).Cause(cause).Build()
}
