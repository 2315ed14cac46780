package compiler

import (
	"errors"
	"fmt"
)

// Compile error codes.
const (
	// ErrInvalidType - a type descriptor matches no grammar rule and no
	// declared name.
	ErrInvalidType = "INVALID_TYPE"

	// ErrInvalidRange - a decimal descriptor with min >= max.
	ErrInvalidRange = "INVALID_RANGE"

	// ErrUndefinedType - a struct attribute names a type declared nowhere.
	ErrUndefinedType = "UNDEFINED_TYPE"

	// ErrCyclicType - the type declaration graph contains a cycle.
	ErrCyclicType = "CYCLIC_TYPE"

	// ErrDuplicateName - two types, messages or nodes share a name.
	ErrDuplicateName = "DUPLICATE_NAME"

	// ErrDuplicateID - two messages share a concrete id on the same bus.
	ErrDuplicateID = "DUPLICATE_ID"

	// ErrAmbiguousBus - a message needs a bus, more than one exists and
	// none was assigned.
	ErrAmbiguousBus = "AMBIGUOUS_BUS"

	// ErrExhaustedIDSpace - an "any id" placeholder cannot be satisfied.
	ErrExhaustedIDSpace = "EXHAUSTED_ID_SPACE"
)

// CompileError is a structured compilation error. Exactly one is returned
// per failed build; there is no partial network.
type CompileError struct {
	Code    string
	Entity  string // offending declaration, when known
	Message string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Entity, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func compileErrorf(code, entity, format string, args ...any) *CompileError {
	return &CompileError{Code: code, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the compile error code from an error, or "" if the error
// is not a *CompileError. Uses errors.As to handle wrapped errors.
func CodeOf(err error) string {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// integrityFault aborts compilation on a programming fault: a condition
// that indicates builder misuse rather than bad user input.
func integrityFault(entity, format string, args ...any) {
	panic(fmt.Sprintf("compiler: integrity fault at %s: %s", entity, fmt.Sprintf(format, args...)))
}
