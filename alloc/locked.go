package alloc

import "sync"

// Locked serializes every call to a BlockAllocator behind one mutex.
// Placement and release semantics are exactly those of the wrapped allocator.
type Locked struct {
	mu sync.Mutex
	a  *BlockAllocator
}

// NewLocked wraps a. The caller must not use a directly afterwards.
func NewLocked(a *BlockAllocator) *Locked {
	return &Locked{a: a}
}

func (l *Locked) Alloc(size int, owner Owner) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Alloc(size, owner)
}

func (l *Locked) FreeOwner(owner Owner) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.FreeOwner(owner)
}

func (l *Locked) Destroy() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Destroy()
}

func (l *Locked) Capacity() int { return l.a.Capacity() }

func (l *Locked) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Records()
}

func (l *Locked) Gaps() []Gap {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Gaps()
}

func (l *Locked) Owners() []Owner {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Owners()
}

func (l *Locked) OwnerBytes(owner Owner) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.OwnerBytes(owner)
}

func (l *Locked) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Stats()
}

func (l *Locked) Snapshot() (Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Snapshot()
}

func (l *Locked) Validate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Validate()
}

func (l *Locked) Destroyed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Destroyed()
}

var (
	_ Allocator = (*BlockAllocator)(nil)
	_ Allocator = (*Locked)(nil)
)
