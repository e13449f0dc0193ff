package alloc

// Owner is the caller-supplied tag attached to every allocated range.
// It is compared for equality only and need not be unique per range.
type Owner = int

// NoSpace is the offset returned by Alloc when the request cannot be placed.
// It lies outside every valid offset range [0, capacity).
const NoSpace = -1

// Record is one allocated range. Both ends are inclusive.
type Record struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Owner Owner `json:"owner"`
}

// Len returns the number of bytes covered by the record.
func (r Record) Len() int { return r.End - r.Start + 1 }

// Gap is an unallocated span. Both ends are inclusive.
type Gap struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the gap.
func (g Gap) Len() int { return g.End - g.Start + 1 }

// Stats contains occupancy and lifetime counters for an allocator.
type Stats struct {
	Capacity   int `json:"capacity"`
	Used       int `json:"used"`        // bytes covered by records
	Free       int `json:"free"`        // Capacity - Used
	Records    int `json:"records"`     // live records
	Owners     int `json:"owners"`      // distinct owners holding at least one record
	LargestGap int `json:"largest_gap"` // largest single request that would succeed

	Allocs     uint64 `json:"allocs"`      // successful Alloc calls
	Failures   uint64 `json:"failures"`    // Alloc calls rejected with ErrNoSpace
	Frees      uint64 `json:"frees"`       // FreeOwner calls that removed at least one record
	FreedBytes uint64 `json:"freed_bytes"` // total bytes returned by FreeOwner
}

// Snapshot is a consistent copy of an allocator's layout.
type Snapshot struct {
	Records []Record `json:"records"`
	Gaps    []Gap    `json:"gaps"`
	Stats   Stats    `json:"stats"`
}

// Allocator defines the owner-tagged allocation interface.
//
// Implementations:
//   - BlockAllocator: first-fit allocator over a fixed buffer, not thread-safe
//   - Locked: BlockAllocator behind a single mutex
type Allocator interface {
	// Alloc reserves size bytes for owner and returns the start offset.
	// When no gap fits it returns NoSpace and ErrNoSpace.
	Alloc(size int, owner Owner) (int, error)

	// FreeOwner releases every range held by owner and returns the number of
	// bytes released. An owner holding nothing yields 0 and no error.
	FreeOwner(owner Owner) (int, error)

	// Destroy releases the backing buffer and all records.
	Destroy() error
}
