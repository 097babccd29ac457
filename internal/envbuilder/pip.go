// SPDX-License-Identifier: MPL-2.0

package envbuilder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrPipBootstrap is the sentinel wrapped by PipBootstrapError.
var ErrPipBootstrap = errors.New("pip bootstrap failed")

type (
	// Command is a subprocess invocation.
	Command struct {
		Path string
		Args []string
		Dir  string
		Env  []string
	}

	// Runner executes a Command and returns its combined stdout and stderr.
	Runner interface {
		Run(ctx context.Context, cmd Command) ([]byte, error)
	}

	// PipBootstrapError carries the output of a failed get-pip.py run.
	PipBootstrapError struct {
		Output string
		Err    error
	}

	execRunner struct{}
)

// Run executes cmd with os/exec.
func (execRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	return c.CombinedOutput()
}

// Error implements the error interface.
func (e *PipBootstrapError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%v: %v", ErrPipBootstrap, e.Err)
	}
	return fmt.Sprintf("%v: %v\n%s", ErrPipBootstrap, e.Err, out)
}

// Unwrap returns both the sentinel and the process error.
func (e *PipBootstrapError) Unwrap() []error {
	return []error{ErrPipBootstrap, e.Err}
}

// SetupPip downloads get-pip.py into the environment and runs it with the
// environment's interpreter.
func (b *Builder) SetupPip(ctx context.Context, c *Context) error {
	getPip := filepath.Join(c.EnvDir, "get-pip.py")
	if err := b.fetcher.DownloadFile(ctx, b.getPipURL, getPip); err != nil {
		return fmt.Errorf("downloading get-pip.py: %w", err)
	}
	b.logger.Debug("Downloaded", "url", b.getPipURL)

	out, err := b.runner.Run(ctx, Command{
		Path: c.EnvExecCmd,
		Args: []string{getPip},
		Dir:  c.EnvDir,
		Env:  pythonEnv(os.Environ(), c.EnvDir),
	})
	if err != nil {
		return &PipBootstrapError{Output: string(out), Err: err}
	}
	b.logger.Debug("Ran get-pip.py")
	return nil
}

// pythonEnv returns base with VIRTUAL_ENV set to envDir and PYTHONHOME and
// PYTHONPATH removed.
func pythonEnv(base []string, envDir string) []string {
	env := make([]string, 0, len(base)+1)
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		switch strings.ToUpper(key) {
		case "VIRTUAL_ENV", "PYTHONHOME", "PYTHONPATH":
			continue
		}
		env = append(env, kv)
	}
	return append(env, "VIRTUAL_ENV="+envDir)
}
