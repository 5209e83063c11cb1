package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner executes a git subcommand in the given directory and returns its
// trimmed standard output. It exists as a seam so the release service can
// be tested against a fake without a real repository.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary via os/exec.
type ExecRunner struct {
	// timeout bounds each git invocation. Zero means the caller's context rules.
	timeout time.Duration
}

// NewExecRunner returns a Runner shelling out to git with the given per-call timeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{timeout: timeout}
}

// Run invokes `git args...` in dir.
// On failure the error carries the subcommand and its stderr output.
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}

		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), detail, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
