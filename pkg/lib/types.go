package lib

import "time"

// ProcessState mirrors the supervised lifecycle: a process is created in
// Running state and moves to Stopped once its exit has been observed.
type ProcessState int

const (
	ProcessStateUnspecified ProcessState = iota
	ProcessStateRunning
	ProcessStateStopped
)

func (s ProcessState) String() string {
	switch s {
	case ProcessStateRunning:
		return "Running"
	case ProcessStateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Spec describes one process to supervise: what to run, where, and the
// environment activation to apply before launch. Activation is modeled
// explicitly (PATH prepends plus variable overrides) instead of sourcing
// a shell script.
type Spec struct {
	// Name identifies the process in logs and reports. Required.
	Name string
	// Dir is the working directory for the launch. Empty means the
	// supervisor's own working directory.
	Dir string
	// Command is the executable to run, resolved against PathPrepend
	// entries first and the ambient PATH second. Required.
	Command string
	Args    []string
	// Env entries override the inherited environment.
	Env map[string]string
	// PathPrepend directories are placed in front of PATH for both
	// command resolution and the child's environment. Relative entries
	// are resolved against Dir.
	PathPrepend []string
}

// CommandLine returns the command and arguments as a single display string.
func (s Spec) CommandLine() string {
	line := s.Command
	for _, a := range s.Args {
		line += " " + a
	}
	return line
}

// ProcessStatus captures runtime state and timestamps.
// ExitCode stays nil until the process has terminated and been reaped;
// a process killed by a signal reports -1.
type ProcessStatus struct {
	State     ProcessState
	ExitCode  *int
	StartTime time.Time
	EndTime   *time.Time
}
