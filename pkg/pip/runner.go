// Package pip shells out to Python packaging tools. It provides the ephemeral
// virtualenv used for dependency analysis and the bulk wheel downloader. All
// invocations are synchronous; the caller blocks for the full duration of each
// subprocess.
package pip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result holds the captured output of a finished subprocess.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int // 0 on success, -1 if the process never ran or was signalled
}

// Runner executes a command and captures its output. The production
// implementation is [ExecRunner]; tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs commands via os/exec, capturing stdout and stderr.
type ExecRunner struct{}

// Run executes name with args and waits for completion. A non-zero exit
// produces a non-nil error alongside the captured output, so callers can
// inspect stderr to distinguish expected failures from unexpected ones.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if err != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		return res, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return res, nil
}

// errDetail summarizes a failed invocation for a human-readable message,
// preferring the subprocess's own stderr over the Go-side error string.
func errDetail(res Result, err error) string {
	if detail := strings.TrimSpace(res.Stderr); detail != "" {
		return lastLines(detail, 5)
	}
	return err.Error()
}

// lastLines returns at most n trailing lines of s. Pip prints the actionable
// part of an error at the end of a long transcript.
func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
