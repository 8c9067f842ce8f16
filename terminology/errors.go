package terminology

import "errors"

// Configuration errors reported while building or compiling a terminology.
var (
	// ErrInvalidPath is returned for a term whose path is neither a literal
	// segment nor an attribute reference.
	ErrInvalidPath = errors.New("invalid term path")

	// ErrInvalidTerm is returned for a term spec without a name.
	ErrInvalidTerm = errors.New("invalid term")

	// ErrDuplicateTerm is returned when two siblings share a name.
	ErrDuplicateTerm = errors.New("duplicate term name")

	// ErrAttributeChildren is returned when an attribute term declares children.
	ErrAttributeChildren = errors.New("attribute terms cannot have children")

	// ErrUnknownRef is returned when a term references a term that does not exist.
	ErrUnknownRef = errors.New("unknown term reference")

	// ErrRefCycle is returned when term references form a cycle.
	ErrRefCycle = errors.New("term reference cycle")
)

// ErrInvalidPointer is returned when caller input cannot be normalized into a Pointer.
var ErrInvalidPointer = errors.New("invalid pointer")
