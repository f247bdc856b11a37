// Package supervisor launches configured commands as background OS
// processes and observes their termination. Every launch returns an
// explicit handle; there is no ambient "last started process" state, and
// a failed launch is a loud, typed error rather than something to shrug
// past.
package supervisor

import (
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/devup-sh/devup/internal/logging"
	"github.com/devup-sh/devup/pkg/lib"
	"github.com/devup-sh/devup/pkg/lib/outputbuf"
)

// Supervisor tracks the processes it has started. It is safe for
// concurrent use.
type Supervisor struct {
	mu        sync.RWMutex
	processes map[string]*processEntry
	logger    *slog.Logger
}

// Handle identifies a process started by a Supervisor. It is only ever
// produced by a successful Start.
type Handle struct {
	ID   string
	PID  int
	Spec lib.Spec
}

type processEntry struct {
	id   string
	spec lib.Spec
	cmd  *exec.Cmd
	pid  int

	// done is closed once the process has been reaped and its final
	// status recorded.
	done chan struct{}

	mu       sync.RWMutex
	state    lib.ProcessState
	exitCode *int
	start    time.Time
	end      *time.Time

	stdout *outputbuf.Buffer
	stderr *outputbuf.Buffer
}

// New creates a Supervisor. A nil logger disables supervisor logging.
func New(logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Supervisor{
		processes: make(map[string]*processEntry),
		logger:    logger,
	}
}

func (s *Supervisor) getProcess(id string) (*processEntry, error) {
	s.mu.RLock()
	pe := s.processes[id]
	s.mu.RUnlock()
	if pe == nil {
		return nil, os.ErrNotExist
	}
	return pe, nil
}

func (pe *processEntry) lockAndGetStatus() lib.ProcessStatus {
	pe.mu.RLock()
	defer pe.mu.RUnlock()

	st := lib.ProcessStatus{State: pe.state, StartTime: pe.start}
	if pe.exitCode != nil {
		st.ExitCode = new(int)
		*st.ExitCode = *pe.exitCode
	}
	if pe.end != nil {
		t := *pe.end
		st.EndTime = &t
	}
	return st
}
