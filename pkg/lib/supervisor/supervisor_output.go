package supervisor

// Output returns replay-then-follow subscriptions to the child's stdout
// and stderr. Each channel replays everything captured so far, follows
// live output, and closes once the process has exited and the stream is
// drained.
func (s *Supervisor) Output(h *Handle) (<-chan []byte, <-chan []byte, error) {
	pe, err := s.getProcess(h.ID)
	if err != nil {
		return nil, nil, err
	}
	return pe.stdout.Subscribe(5), pe.stderr.Subscribe(5), nil
}
