package supervisor

import (
	"context"
	"sync"

	"github.com/devup-sh/devup/pkg/lib"
)

// Wait blocks until the process behind the handle has terminated and its
// exit has been recorded, then returns the final status. The wait is
// interruptible through ctx; the child keeps running if ctx is done first.
func (s *Supervisor) Wait(ctx context.Context, h *Handle) (lib.ProcessStatus, error) {
	pe, err := s.getProcess(h.ID)
	if err != nil {
		return lib.ProcessStatus{}, err
	}

	select {
	case <-pe.done:
		return pe.lockAndGetStatus(), nil
	case <-ctx.Done():
		return pe.lockAndGetStatus(), ctx.Err()
	}
}

// WaitAll waits on every handle concurrently, so each exit is observed the
// moment it happens rather than in launch order. onExit (optional) is
// invoked once per terminated process, serialized, in the order the exits
// were observed. The returned statuses are in handle order.
//
// If ctx is done before every process has exited, WaitAll returns the
// statuses recorded so far along with ctx.Err(); processes still running
// report a Running state in their slot.
func (s *Supervisor) WaitAll(ctx context.Context, handles []*Handle, onExit func(*Handle, lib.ProcessStatus)) ([]lib.ProcessStatus, error) {
	results := make([]lib.ProcessStatus, len(handles))

	var wg sync.WaitGroup
	var mu sync.Mutex // serializes onExit and firstErr
	var firstErr error

	for i, h := range handles {
		wg.Add(1)
		go func(i int, h *Handle) {
			defer wg.Done()
			st, err := s.Wait(ctx, h)
			mu.Lock()
			defer mu.Unlock()
			results[i] = st
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			if onExit != nil {
				onExit(h, st)
			}
		}(i, h)
	}
	wg.Wait()

	return results, firstErr
}
