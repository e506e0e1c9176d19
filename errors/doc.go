// Package errors provides structured error types for the classview decoder.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the byte offset of the failing read, a path through the
// decoded structure, and an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConstantPool, errors.KindUnknownConstantTag).
//		Path("constant_pool", "#7").
//		Offset(42).
//		Value(uint8(99)).
//		Detail("tag 99 is not defined").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnexpectedEOF(errors.PhaseDecode, 10, 4, 2)
//	err := errors.DanglingReference(errors.PhaseResolve, 12, 40)
//
// The sentinels (ErrUnexpectedEOF, ErrUnknownConstantTag, ...) match any error of
// the same Kind, whatever the phase:
//
//	if errors.Is(err, errors.ErrUnexpectedEOF) { ... }
package errors
