package supervisor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/devup-sh/devup/pkg/lib"
	"github.com/devup-sh/devup/pkg/lib/outputbuf"
)

// Start launches the process described by spec as a background child in
// its own process group and returns a handle for it. The launch is
// validated up front: a missing working directory or unresolvable command
// fails with a *LaunchError before anything is spawned, so a broken spec
// never leaves the caller holding a dead handle.
func (s *Supervisor) Start(spec lib.Spec) (*Handle, error) {
	if spec.Name == "" {
		return nil, launchErr("?", errors.New("process name is required"))
	}
	if spec.Command == "" {
		return nil, launchErr(spec.Name, errors.New("command is required"))
	}

	workDir := ""
	if spec.Dir != "" {
		abs, err := filepath.Abs(spec.Dir)
		if err != nil {
			return nil, launchErr(spec.Name, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, launchErr(spec.Name, err)
		}
		if !info.IsDir() {
			return nil, launchErr(spec.Name, fmt.Errorf("%s is not a directory", abs))
		}
		workDir = abs
	}

	prepends := resolvePrepends(spec, workDir)
	path, err := resolveCommand(spec, workDir, prepends)
	if err != nil {
		return nil, launchErr(spec.Name, err)
	}

	cmd := exec.Command(path, spec.Args...)
	cmd.Dir = workDir
	cmd.Env = buildEnv(spec, prepends)
	// Own process group, so Stop can signal the whole tree.
	cmd.SysProcAttr = sysProcAttr()

	stdout := outputbuf.New()
	stderr := outputbuf.New()
	// cmd.Stdin is left nil, so the child reads /dev/null.
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	id := lib.NewID()
	pe := &processEntry{
		id:     id,
		spec:   spec,
		cmd:    cmd,
		done:   make(chan struct{}),
		state:  lib.ProcessStateRunning,
		start:  time.Now(),
		stdout: stdout,
		stderr: stderr,
	}

	s.logger.Debug("starting process", "name", spec.Name, "id", id, "command", spec.CommandLine())
	if err := cmd.Start(); err != nil {
		return nil, launchErr(spec.Name, err)
	}
	pe.pid = cmd.Process.Pid

	// Reaper: record the final status once the child terminates.
	go func() {
		err := cmd.Wait()

		stdout.Close()
		stderr.Close()

		pe.mu.Lock()
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code := exitErr.ExitCode()
				pe.exitCode = &code
			}
			// Non-exit errors leave exitCode nil.
		} else {
			code := 0
			pe.exitCode = &code
		}
		now := time.Now()
		pe.end = &now
		pe.state = lib.ProcessStateStopped
		pe.mu.Unlock()
		close(pe.done)

		s.logger.Debug("process exited", "name", spec.Name, "id", id, "error", err)
	}()

	s.mu.Lock()
	s.processes[id] = pe
	s.mu.Unlock()

	return &Handle{ID: id, PID: pe.pid, Spec: spec}, nil
}

// Resolve checks a spec without launching it: it verifies the working
// directory and returns the absolute path the command would run as.
func Resolve(spec lib.Spec) (string, error) {
	if spec.Command == "" {
		return "", launchErr(spec.Name, errors.New("command is required"))
	}
	workDir := ""
	if spec.Dir != "" {
		abs, err := filepath.Abs(spec.Dir)
		if err != nil {
			return "", launchErr(spec.Name, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", launchErr(spec.Name, err)
		}
		if !info.IsDir() {
			return "", launchErr(spec.Name, fmt.Errorf("%s is not a directory", abs))
		}
		workDir = abs
	}
	path, err := resolveCommand(spec, workDir, resolvePrepends(spec, workDir))
	if err != nil {
		return "", launchErr(spec.Name, err)
	}
	return path, nil
}

func resolvePrepends(spec lib.Spec, workDir string) []string {
	if len(spec.PathPrepend) == 0 {
		return nil
	}
	out := make([]string, 0, len(spec.PathPrepend))
	for _, p := range spec.PathPrepend {
		if !filepath.IsAbs(p) {
			p = filepath.Join(workDir, p)
		}
		out = append(out, p)
	}
	return out
}

// resolveCommand locates the executable for a spec. Commands containing a
// path separator are taken relative to the working directory; bare names
// are searched in the PATH prepends first, then the ambient PATH.
func resolveCommand(spec lib.Spec, workDir string, prepends []string) (string, error) {
	if strings.ContainsRune(spec.Command, os.PathSeparator) {
		path := spec.Command
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		if err := checkExecutable(path); err != nil {
			return "", err
		}
		return path, nil
	}

	for _, dir := range prepends {
		candidate := filepath.Join(dir, spec.Command)
		if err := checkExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return exec.LookPath(spec.Command)
}

func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() || info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}

// buildEnv merges the spec's overrides into the inherited environment and
// puts the PATH prepends in front of PATH.
func buildEnv(spec lib.Spec, prepends []string) []string {
	env := os.Environ()

	overrides := make(map[string]string, len(spec.Env)+1)
	for k, v := range spec.Env {
		overrides[k] = v
	}
	if len(prepends) > 0 {
		path := os.Getenv("PATH")
		if p, ok := overrides["PATH"]; ok {
			path = p
		}
		joined := strings.Join(prepends, string(os.PathListSeparator))
		if path != "" {
			joined += string(os.PathListSeparator) + path
		}
		overrides["PATH"] = joined
	}
	if len(overrides) == 0 {
		return env
	}

	out := env[:0]
	for _, kv := range env {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[key]; ok {
			continue
		}
		out = append(out, kv)
	}
	for k, v := range overrides {
		out = append(out, k+"="+v)
	}
	return out
}
