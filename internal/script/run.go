package script

import (
	"errors"
	"fmt"

	"github.com/joshuapare/blockalloc/alloc"
	"github.com/joshuapare/blockalloc/internal/logger"
)

var (
	// ErrNoAllocator indicates an operation before any create.
	ErrNoAllocator = errors.New("script: no allocator, missing create")

	// ErrAlreadyCreated indicates a create while an allocator is still live.
	ErrAlreadyCreated = errors.New("script: allocator already created")
)

// Options configures a replay.
type Options struct {
	Backing alloc.Backing
}

// Result is the outcome of one operation.
type Result struct {
	Op     Op
	Offset int   // alloc: start offset or alloc.NoSpace
	Freed  int   // free: bytes released
	Err    error // nil, alloc.ErrNoSpace, or the error that stopped the replay
}

// Report is the outcome of a replay.
type Report struct {
	Results []Result

	// Final is the layout the last time an allocator was live: just before a
	// destroy, or at the end of the script. Nil if no allocator was created.
	Final *alloc.Snapshot
}

// Run replays ops against a fresh BlockAllocator.
//
// ErrNoSpace is recorded in the corresponding Result and the replay goes on.
// Any other failure stops the replay and is returned together with the
// results gathered so far. An allocator the script leaves live is destroyed
// before Run returns.
func Run(ops []Op, opts Options) (rep *Report, err error) {
	rep = &Report{}
	var a *alloc.BlockAllocator

	capture := func() {
		if a == nil || a.Destroyed() {
			return
		}
		if snap, snapErr := a.Snapshot(); snapErr == nil {
			rep.Final = &snap
		}
	}

	defer func() {
		if a == nil || a.Destroyed() {
			return
		}
		capture()
		if destroyErr := a.Destroy(); destroyErr != nil && err == nil {
			err = destroyErr
		}
	}()

	for _, op := range ops {
		res := Result{Op: op, Offset: alloc.NoSpace}
		var opErr error

		switch op.Kind {
		case OpCreate:
			if a != nil && !a.Destroyed() {
				opErr = ErrAlreadyCreated
				break
			}
			a, opErr = alloc.New(op.Size, alloc.WithBacking(opts.Backing))
		case OpAlloc:
			if a == nil {
				opErr = ErrNoAllocator
				break
			}
			res.Offset, opErr = a.Alloc(op.Size, op.Owner)
		case OpFree:
			if a == nil {
				opErr = ErrNoAllocator
				break
			}
			res.Freed, opErr = a.FreeOwner(op.Owner)
		case OpDestroy:
			if a == nil {
				opErr = ErrNoAllocator
				break
			}
			capture()
			opErr = a.Destroy()
		default:
			opErr = fmt.Errorf("script: unsupported operation %v", op.Kind)
		}

		res.Err = opErr
		rep.Results = append(rep.Results, res)

		switch {
		case opErr == nil:
			logger.Debug("replayed", "line", op.Line, "op", op.String(), "offset", res.Offset, "freed", res.Freed)
		case errors.Is(opErr, alloc.ErrNoSpace):
			logger.Warn("allocation failed", "line", op.Line, "op", op.String(), "err", opErr)
		default:
			logger.Error("replay stopped", "line", op.Line, "op", op.String(), "err", opErr)
			return rep, fmt.Errorf("line %d: %s: %w", op.Line, op, opErr)
		}
	}
	return rep, nil
}
