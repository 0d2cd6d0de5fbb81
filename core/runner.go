package core

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// Invocation describes one external tool run. The working directory is an
// explicit parameter: the process-wide working directory is never mutated,
// which keeps invocations safe to serialize or parallelize.
type Invocation struct {
	Dir  string
	Name string
	Args []string

	// Timeout is an optional wall-clock budget. Zero means the invocation
	// may block until the tool finishes or the context is cancelled.
	Timeout time.Duration
}

// Runner executes external coverage tools.
type Runner struct{}

// Run executes inv and returns its combined stdout/stderr. Cancellation of
// ctx (or expiry of the invocation budget) kills the tool's entire process
// group so compilers and test hosts it spawned do not linger. A non-zero
// exit comes back as an *exec.ExitError with the captured output intact.
func (Runner) Run(ctx context.Context, inv Invocation) (string, error) {
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	configureProcessGroup(cmd)
	cmd.Cancel = func() error { return terminateProcessTree(cmd) }

	err := cmd.Run()
	return out.String(), err
}

// ToolPresent reports whether an executable is resolvable on PATH.
func ToolPresent(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
