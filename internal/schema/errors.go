package schema

import (
	"errors"
	"fmt"
)

// Error categories for schema processing
var (
	// ErrMalformedInput marks input that violates the minimal shape a schema
	// document must have.
	ErrMalformedInput = errors.New("malformed schema input")

	// ErrStructural marks a cyclic or unbounded-depth schema tree.
	ErrStructural = errors.New("structural schema error")
)

// MalformedInputError reports where a document violates its expected shape.
type MalformedInputError struct {
	Pointer string
	Reason  string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrMalformedInput, displayPointer(e.Pointer), e.Reason)
}

func (e *MalformedInputError) Unwrap() error { return ErrMalformedInput }

// StructuralError reports a cycle or a depth overflow found while walking a tree.
type StructuralError struct {
	Pointer string
	Reason  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrStructural, displayPointer(e.Pointer), e.Reason)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

func malformed(pointer, format string, args ...any) error {
	return &MalformedInputError{Pointer: pointer, Reason: fmt.Sprintf(format, args...)}
}

func displayPointer(p string) string {
	if p == "" {
		return "#"
	}
	return "#" + p
}
