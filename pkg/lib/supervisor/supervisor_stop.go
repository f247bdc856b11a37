package supervisor

import (
	"context"
	"time"

	"golang.org/x/sys/unix"

	"github.com/devup-sh/devup/pkg/lib"
)

// Stop terminates the process behind the handle: SIGTERM to its process
// group, then SIGKILL once the grace period expires. It returns the final
// status. Stopping an already-terminated process is a no-op that returns
// the recorded status.
func (s *Supervisor) Stop(ctx context.Context, h *Handle, grace time.Duration) (lib.ProcessStatus, error) {
	pe, err := s.getProcess(h.ID)
	if err != nil {
		return lib.ProcessStatus{}, err
	}

	select {
	case <-pe.done:
		return pe.lockAndGetStatus(), nil
	default:
	}

	s.logger.Debug("stopping process", "name", pe.spec.Name, "id", pe.id, "pid", pe.pid)
	// Negative PID signals the whole process group.
	_ = unix.Kill(-pe.pid, unix.SIGTERM)

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-pe.done:
		return pe.lockAndGetStatus(), nil
	case <-ctx.Done():
		_ = unix.Kill(-pe.pid, unix.SIGKILL)
		<-pe.done
		return pe.lockAndGetStatus(), ctx.Err()
	case <-timer.C:
	}

	s.logger.Debug("grace period expired, killing process group", "name", pe.spec.Name, "pid", pe.pid)
	_ = unix.Kill(-pe.pid, unix.SIGKILL)
	<-pe.done
	return pe.lockAndGetStatus(), nil
}
