package alloc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSpace indicates that no gap, including the tail of the buffer, can hold the request.
	ErrNoSpace = errors.New("alloc: no gap large enough")

	// ErrInvalidArgument indicates a non-positive capacity or size.
	ErrInvalidArgument = errors.New("alloc: invalid argument")

	// ErrDestroyed indicates an operation on an allocator after Destroy.
	ErrDestroyed = errors.New("alloc: allocator destroyed")

	// ErrBadRange indicates a byte range that does not lie inside a single allocated record.
	ErrBadRange = errors.New("alloc: range not inside an allocated record")
)

// InvariantError describes the first structural violation found by Validate.
type InvariantError struct {
	Index  int // position of the offending record, -1 when not record specific
	Reason string
}

func (e *InvariantError) Error() string {
	if e.Index < 0 {
		return "alloc: invariant violated: " + e.Reason
	}
	return fmt.Sprintf("alloc: invariant violated at record %d: %s", e.Index, e.Reason)
}
