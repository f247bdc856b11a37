// Package config loads the stack file that tells devup what to run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/devup-sh/devup/pkg/lib"
)

// DefaultFile is the stack file looked for when -f is not given.
const DefaultFile = "devup.yaml"

// Activation is the explicit form of "source the environment": directories
// to put in front of PATH and variables to set.
type Activation struct {
	PathPrepend []string          `yaml:"path_prepend"`
	Env         map[string]string `yaml:"env"`
}

// Process is one entry of the stack file.
type Process struct {
	Name     string     `yaml:"name"`
	Dir      string     `yaml:"dir"`
	Command  string     `yaml:"command"`
	Args     []string   `yaml:"args"`
	Activate Activation `yaml:"activate"`
}

// Stack is the parsed stack file. Process order is launch order.
type Stack struct {
	Processes []Process `yaml:"processes"`
}

// Load reads and validates a stack file. Relative process directories are
// resolved against the directory containing the file, so a stack behaves
// the same no matter where devup is invoked from.
func Load(path string) (*Stack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stack file: %w", err)
	}

	var stack Stack
	if err := yaml.Unmarshal(data, &stack); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	for i := range stack.Processes {
		p := &stack.Processes[i]
		if p.Dir != "" && !filepath.IsAbs(p.Dir) {
			p.Dir = filepath.Join(base, p.Dir)
		}
	}

	if err := stack.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &stack, nil
}

func (s *Stack) validate() error {
	if len(s.Processes) == 0 {
		return fmt.Errorf("no processes defined")
	}
	seen := make(map[string]struct{}, len(s.Processes))
	for i, p := range s.Processes {
		if p.Name == "" {
			return fmt.Errorf("process %d: name is required", i)
		}
		if p.Command == "" {
			return fmt.Errorf("process %q: command is required", p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("process %q: duplicate name", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Specs converts the stack entries into supervisor specs, in launch order.
func (s *Stack) Specs() []lib.Spec {
	specs := make([]lib.Spec, 0, len(s.Processes))
	for _, p := range s.Processes {
		specs = append(specs, lib.Spec{
			Name:        p.Name,
			Dir:         p.Dir,
			Command:     p.Command,
			Args:        p.Args,
			Env:         p.Activate.Env,
			PathPrepend: p.Activate.PathPrepend,
		})
	}
	return specs
}
