package supervisor

import "fmt"

// LaunchError reports that a process could not be started: the working
// directory is missing, the command cannot be resolved, or the spawn
// itself failed. It always carries the spec name so multi-process callers
// can tell which launch broke.
type LaunchError struct {
	Name string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Name, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

func launchErr(name string, err error) *LaunchError {
	return &LaunchError{Name: name, Err: err}
}
