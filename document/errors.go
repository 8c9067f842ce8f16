package document

import "errors"

var (
	// ErrNodeNotFound indicates an update target missing at the requested
	// index.
	ErrNodeNotFound = errors.New("node not found")

	// ErrParentNotFound indicates an append whose parent selection matched
	// nothing.
	ErrParentNotFound = errors.New("parent node not found")

	// ErrUnresolvedPointer indicates a pointer that does not resolve where
	// the operation requires one.
	ErrUnresolvedPointer = errors.New("pointer does not resolve")

	// ErrNoSelection indicates a delete without a select or parent select.
	ErrNoSelection = errors.New("no selection given")
)
