package supervisor

import (
	"github.com/devup-sh/devup/pkg/lib"
)

// Status returns a snapshot of the process behind the handle.
func (s *Supervisor) Status(h *Handle) (lib.ProcessStatus, error) {
	pe, err := s.getProcess(h.ID)
	if err != nil {
		return lib.ProcessStatus{}, err
	}
	return pe.lockAndGetStatus(), nil
}
