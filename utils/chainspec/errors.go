package chainspec

import "errors"

var (
	// ErrNodeNotFound reports a replace against a chain id that is not in
	// the tree. This is a structural desync between the caller's identity
	// reference and the tree; callers must not swallow it.
	ErrNodeNotFound = errors.New("chain node not found")

	// ErrInvalidInsertTarget reports an insert whose parent id does not
	// resolve to a container node (sequential or case).
	ErrInvalidInsertTarget = errors.New("invalid insert target")
)
