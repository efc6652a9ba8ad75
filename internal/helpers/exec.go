package helpers

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// CommandRunner runs external programs: the activated terraform binary and,
// on darwin, brew during pointer discovery. Tests swap in MockCommandRunner.
type CommandRunner interface {
	// CommandExists reports whether name resolves on PATH.
	CommandExists(name string) bool

	// LookPath resolves name to the path PATH selects.
	LookPath(name string) (string, error)

	// RunCommand runs name with args and returns its stdout.
	RunCommand(ctx context.Context, name string, args ...string) (string, error)
}

// OSCommandRunner is the os/exec backed CommandRunner.
type OSCommandRunner struct {
	found sync.Map // name -> bool
}

// NewOSCommandRunner creates a new OSCommandRunner instance
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// CommandExists caches PATH lookups for the life of the runner.
func (r *OSCommandRunner) CommandExists(name string) bool {
	if v, ok := r.found.Load(name); ok {
		return v.(bool)
	}
	_, err := exec.LookPath(name)
	r.found.Store(name, err == nil)
	return err == nil
}

// LookPath resolves name against PATH.
func (r *OSCommandRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("command %q not found in PATH: %w", name, err)
	}
	return path, nil
}

// RunCommand never goes through a shell; stderr is folded into the error.
func (r *OSCommandRunner) RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}
