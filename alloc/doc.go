// Package alloc provides owner-tagged range allocation within a fixed-size buffer.
//
// # Overview
//
// A BlockAllocator manages the byte offsets of a single buffer. Callers ask for
// a number of bytes on behalf of an owner, an opaque integer tag, and receive
// the start offset of the reserved range. Release is by owner, not by handle:
// FreeOwner drops every range the owner holds in one call.
//
// The allocator only tracks offsets. It never reads or writes the buffer; Bytes
// exposes a view of an allocated range for callers that want to.
//
// # Placement
//
// Placement is first-fit. Records are kept ordered by start offset and the
// search walks them from offset 0, taking the first gap large enough for the
// request. A request that exactly fills a gap is accepted. No search is made
// for a tighter gap further on, so the returned offset is fully determined by
// the sequence of previous calls:
//
//	a, _ := alloc.New(100)
//	a.Alloc(20, 1)   // 0
//	a.Alloc(30, 2)   // 20
//	a.Alloc(60, 3)   // NoSpace, ErrNoSpace (tail [50,99] is only 50 bytes)
//	a.FreeOwner(1)   // 20
//	a.Alloc(10, 4)   // 0
//
// # Errors
//
//   - ErrNoSpace: nothing fits; not fatal, free something and retry
//   - ErrInvalidArgument: non-positive capacity or size
//   - ErrDestroyed: any call after Destroy
//   - ErrBadRange: Bytes outside a single allocated record
//
// Freeing an owner that holds nothing is not an error and returns 0.
//
// # Backing
//
// The buffer lives on the Go heap by default. WithBacking(BackingMmap) places it
// in an anonymous memory mapping that Destroy unmaps.
//
// # Thread Safety
//
// BlockAllocator instances are not thread-safe. Wrap one in Locked to share it
// between goroutines; every operation then runs under a single mutex.
package alloc
