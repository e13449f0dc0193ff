package alloc

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/joshuapare/blockalloc/internal/backing"
)

// Backing selects where the allocator's buffer lives.
type Backing = backing.Kind

const (
	// BackingHeap keeps the buffer in an ordinary Go slice (default).
	BackingHeap = backing.Heap
	// BackingMmap keeps the buffer in an anonymous mapping that Destroy unmaps.
	BackingMmap = backing.Mmap
)

// ParseBacking converts "heap" or "mmap" into a Backing.
func ParseBacking(s string) (Backing, error) {
	return backing.ParseKind(s)
}

// Option configures a BlockAllocator at creation time.
type Option func(*options)

type options struct {
	backing Backing
}

// WithBacking selects the backing buffer provider.
func WithBacking(b Backing) Option {
	return func(o *options) { o.backing = b }
}

// BlockAllocator hands out byte ranges of a fixed-size buffer using first-fit
// placement, tagging each range with an owner instead of returning a handle.
//
// Records are kept in a slice ordered by start offset. An owner may hold any
// number of disjoint ranges; FreeOwner releases all of them at once.
//
// BlockAllocator is not safe for concurrent use; see Locked.
type BlockAllocator struct {
	capacity int
	buf      []byte
	release  func() error

	// records is ordered by Start and pairwise non-overlapping.
	records []Record

	// owners counts live records per owner. It lets FreeOwner skip the scan for
	// unknown owners and never influences placement.
	owners map[Owner]int

	destroyed bool

	allocs     uint64
	failures   uint64
	frees      uint64
	freedBytes uint64
}

// New creates an allocator managing capacity bytes.
func New(capacity int, opts ...Option) (*BlockAllocator, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidArgument, capacity)
	}
	o := options{backing: BackingHeap}
	for _, opt := range opts {
		opt(&o)
	}

	buf, release, err := backing.Acquire(o.backing, capacity)
	if err != nil {
		return nil, fmt.Errorf("alloc: acquire %s backing: %w", o.backing, err)
	}

	return &BlockAllocator{
		capacity: capacity,
		buf:      buf,
		release:  release,
		owners:   make(map[Owner]int),
	}, nil
}

// Alloc reserves size bytes for owner at the lowest offset whose gap can hold
// them and returns that offset.
//
// The search walks records in order and stops at the first gap that fits;
// it never looks for a tighter gap further on. When nothing fits, including
// the tail of the buffer, Alloc returns NoSpace and an error wrapping
// ErrNoSpace and leaves the allocator unchanged.
func (a *BlockAllocator) Alloc(size int, owner Owner) (int, error) {
	if a.destroyed {
		return NoSpace, ErrDestroyed
	}
	if size <= 0 {
		return NoSpace, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidArgument, size)
	}

	start, at := a.firstFit(size)
	// start+size-1 >= capacity, written so that huge sizes cannot overflow.
	if start > a.capacity-size {
		a.failures++
		return NoSpace, fmt.Errorf("%w: %d bytes for owner %d", ErrNoSpace, size, owner)
	}

	a.records = slices.Insert(a.records, at, Record{
		Start: start,
		End:   start + size - 1,
		Owner: owner,
	})
	a.owners[owner]++
	a.allocs++
	return start, nil
}

// firstFit returns the candidate start offset and the index the new record
// would occupy. The candidate may lie past the capacity; the caller decides.
func (a *BlockAllocator) firstFit(size int) (start, at int) {
	for i, r := range a.records {
		if r.Start-start >= size {
			return start, i
		}
		start = r.End + 1
	}
	return start, len(a.records)
}

// FreeOwner removes every record held by owner and returns the number of bytes
// released. Unknown owners are not an error: the result is 0 and nothing
// changes. Remaining records keep their order.
func (a *BlockAllocator) FreeOwner(owner Owner) (int, error) {
	if a.destroyed {
		return 0, ErrDestroyed
	}
	if a.owners[owner] == 0 {
		return 0, nil
	}

	freed := 0
	a.records = slices.DeleteFunc(a.records, func(r Record) bool {
		if r.Owner != owner {
			return false
		}
		freed += r.Len()
		return true
	})
	delete(a.owners, owner)

	a.frees++
	a.freedBytes += uint64(freed)
	return freed, nil
}

// Destroy drops every record and releases the backing buffer. Any later call,
// including a second Destroy, reports ErrDestroyed. Slices returned by Bytes
// must not be used afterwards.
func (a *BlockAllocator) Destroy() error {
	if a.destroyed {
		return ErrDestroyed
	}
	a.destroyed = true
	a.records = nil
	a.owners = nil
	a.buf = nil

	release := a.release
	a.release = nil
	if release != nil {
		if err := release(); err != nil {
			return fmt.Errorf("alloc: release backing: %w", err)
		}
	}
	return nil
}

// Destroyed reports whether Destroy has been called.
func (a *BlockAllocator) Destroyed() bool { return a.destroyed }

// Capacity returns the size of the managed buffer in bytes.
func (a *BlockAllocator) Capacity() int { return a.capacity }

// Records returns a copy of the live records in ascending start order.
// It returns nil after Destroy.
func (a *BlockAllocator) Records() []Record {
	if a.destroyed {
		return nil
	}
	return slices.Clone(a.records)
}

// Gaps returns the unallocated spans in ascending order, including the space
// before the first record and after the last one. It returns nil after Destroy.
func (a *BlockAllocator) Gaps() []Gap {
	if a.destroyed {
		return nil
	}
	var gaps []Gap
	next := 0
	for _, r := range a.records {
		if r.Start > next {
			gaps = append(gaps, Gap{Start: next, End: r.Start - 1})
		}
		next = r.End + 1
	}
	if next < a.capacity {
		gaps = append(gaps, Gap{Start: next, End: a.capacity - 1})
	}
	return gaps
}

// Owners returns the distinct owners currently holding at least one record,
// in ascending order.
func (a *BlockAllocator) Owners() []Owner {
	if a.destroyed {
		return nil
	}
	return slices.Sorted(maps.Keys(a.owners))
}

// OwnerBytes returns the number of bytes currently held by owner.
func (a *BlockAllocator) OwnerBytes(owner Owner) int {
	if a.destroyed || a.owners[owner] == 0 {
		return 0
	}
	n := 0
	for _, r := range a.records {
		if r.Owner == owner {
			n += r.Len()
		}
	}
	return n
}

// Stats returns occupancy and lifetime counters. It returns the zero value
// after Destroy.
func (a *BlockAllocator) Stats() Stats {
	if a.destroyed {
		return Stats{}
	}
	s := Stats{
		Capacity:   a.capacity,
		Records:    len(a.records),
		Owners:     len(a.owners),
		Allocs:     a.allocs,
		Failures:   a.failures,
		Frees:      a.frees,
		FreedBytes: a.freedBytes,
	}
	for _, r := range a.records {
		s.Used += r.Len()
	}
	s.Free = a.capacity - s.Used
	for _, g := range a.Gaps() {
		s.LargestGap = max(s.LargestGap, g.Len())
	}
	return s
}

// Snapshot returns records, gaps and stats captured together.
func (a *BlockAllocator) Snapshot() (Snapshot, error) {
	if a.destroyed {
		return Snapshot{}, ErrDestroyed
	}
	return Snapshot{
		Records: a.Records(),
		Gaps:    a.Gaps(),
		Stats:   a.Stats(),
	}, nil
}

// Bytes returns a view of size bytes of the backing buffer starting at offset.
// The whole range must lie inside one allocated record. The returned slice has
// its capacity clipped to size.
func (a *BlockAllocator) Bytes(offset, size int) ([]byte, error) {
	if a.destroyed {
		return nil, ErrDestroyed
	}
	if offset < 0 || size <= 0 {
		return nil, fmt.Errorf("%w: offset %d size %d", ErrBadRange, offset, size)
	}

	i, found := slices.BinarySearchFunc(a.records, offset, func(r Record, off int) int {
		return cmp.Compare(r.Start, off)
	})
	if !found {
		i-- // record starting before offset, if any
	}
	if i < 0 || size-1 > a.records[i].End-offset {
		return nil, fmt.Errorf("%w: offset %d size %d", ErrBadRange, offset, size)
	}
	return a.buf[offset : offset+size : offset+size], nil
}

// Validate checks ordering, non-overlap, bounds and owner bookkeeping. It
// returns an *InvariantError for the first violation found.
func (a *BlockAllocator) Validate() error {
	if a.destroyed {
		return ErrDestroyed
	}
	if len(a.buf) != a.capacity {
		return &InvariantError{Index: -1, Reason: fmt.Sprintf("buffer length %d != capacity %d", len(a.buf), a.capacity)}
	}

	counts := make(map[Owner]int, len(a.owners))
	for i, r := range a.records {
		if r.Start < 0 || r.End < r.Start || r.End >= a.capacity {
			return &InvariantError{Index: i, Reason: fmt.Sprintf("[%d, %d] outside [0, %d)", r.Start, r.End, a.capacity)}
		}
		if i > 0 {
			prev := a.records[i-1]
			if prev.Start >= r.Start {
				return &InvariantError{Index: i, Reason: fmt.Sprintf("start %d not above previous start %d", r.Start, prev.Start)}
			}
			if prev.End >= r.Start {
				return &InvariantError{Index: i, Reason: fmt.Sprintf("[%d, %d] overlaps previous [%d, %d]", r.Start, r.End, prev.Start, prev.End)}
			}
		}
		counts[r.Owner]++
	}

	if !maps.Equal(counts, a.owners) {
		return &InvariantError{Index: -1, Reason: "owner index out of sync with records"}
	}
	return nil
}
