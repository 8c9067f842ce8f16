package xmltree

import "errors"

var (
	// ErrInvalidQuery indicates a query that does not compile.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnknownPrefix indicates a namespace prefix with no URI mapping.
	ErrUnknownPrefix = errors.New("unknown namespace prefix")

	// ErrInvalidShape indicates a node shape that cannot be built.
	ErrInvalidShape = errors.New("invalid node shape")

	// ErrNoParent indicates a build or insert without a parent node.
	ErrNoParent = errors.New("parent node is required")
)
