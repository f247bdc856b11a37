package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStackFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func TestUpRunsStackToCompletion(t *testing.T) {
	path := writeStackFile(t, `
processes:
  - name: backend
    command: sh
    args: ["-c", "echo backend ready"]
  - name: frontend
    command: sh
    args: ["-c", "echo frontend ready"]
`)
	assert.NoError(t, execute(t, "up", "-f", path))
}

func TestUpReportsChildFailure(t *testing.T) {
	path := writeStackFile(t, `
processes:
  - name: backend
    command: sh
    args: ["-c", "exit 2"]
  - name: frontend
    command: sh
    args: ["-c", "true"]
`)
	err := execute(t, "up", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend exited with code 2")
}

func TestUpLaunchFailureStopsEarlierProcesses(t *testing.T) {
	path := writeStackFile(t, `
processes:
  - name: backend
    command: sh
    args: ["-c", "sleep 30"]
  - name: frontend
    command: no-such-frontend-binary-31ab
`)
	start := time.Now()
	err := execute(t, "up", "-f", path, "--grace", "2s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frontend")
	// The long-running backend must have been torn down, not waited on.
	assert.Less(t, time.Since(start), 15*time.Second)
}

func TestUpHaltOnExit(t *testing.T) {
	path := writeStackFile(t, `
processes:
  - name: backend
    command: sh
    args: ["-c", "sleep 30"]
  - name: frontend
    command: sh
    args: ["-c", "true"]
`)
	start := time.Now()
	err := execute(t, "up", "-f", path, "--halt-on-exit", "--grace", "2s")
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), 15*time.Second)
}

func TestCheckResolvesCommands(t *testing.T) {
	good := writeStackFile(t, `
processes:
  - name: shell
    command: sh
`)
	assert.NoError(t, execute(t, "check", "-f", good))

	bad := writeStackFile(t, `
processes:
  - name: shell
    command: sh
  - name: ghost
    command: no-such-binary-77cd
`)
	err := execute(t, "check", "-f", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
}

func TestRunCommandPropagatesExitCode(t *testing.T) {
	err := execute(t, "run", "--", "sh", "-c", "exit 4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code 4")

	assert.NoError(t, execute(t, "run", "--", "sh", "-c", "true"))
}
