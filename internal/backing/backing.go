// Package backing provides the byte buffers an allocator hands out views of.
package backing

import (
	"fmt"
	"strings"
)

// Kind selects where a backing buffer lives.
type Kind uint8

const (
	// Heap backs the buffer with an ordinary Go slice.
	Heap Kind = iota
	// Mmap backs the buffer with an anonymous private mapping outside the Go heap.
	Mmap
)

func (k Kind) String() string {
	switch k {
	case Heap:
		return "heap"
	case Mmap:
		return "mmap"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind converts a name such as "heap" or "mmap" into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "heap":
		return Heap, nil
	case "mmap":
		return Mmap, nil
	default:
		return Heap, fmt.Errorf("backing: unknown kind %q (want heap or mmap)", s)
	}
}

// Acquire returns a zeroed buffer of size bytes and a release function.
// Calling release more than once is a no-op.
func Acquire(kind Kind, size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("backing: size must be positive, got %d", size)
	}
	switch kind {
	case Heap:
		return acquireHeap(size)
	case Mmap:
		return acquireMmap(size)
	default:
		return nil, nil, fmt.Errorf("backing: unknown kind %v", kind)
	}
}

func acquireHeap(size int) ([]byte, func() error, error) {
	return make([]byte, size), func() error { return nil }, nil
}
