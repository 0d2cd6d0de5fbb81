package base

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/oxhq/covscan/core"
)

// Base carries the plumbing shared by every tool-backed adapter: the
// subprocess runner, the optional per-invocation budget, and injection
// points for tests. Embed it by value in concrete providers.
type Base struct {
	// WorkspaceRoot bounds parent-chain searches (workspace membership).
	WorkspaceRoot string

	// Timeout is the wall-clock budget applied to each tool invocation.
	// Zero imposes none.
	Timeout time.Duration

	// Logf receives adapter diagnostics. Never nil after New.
	Logf func(format string, args ...any)

	// Exec runs one invocation. Defaults to core.Runner; tests substitute
	// a stub that fabricates report files.
	Exec func(ctx context.Context, inv core.Invocation) (string, error)

	// LookPath resolves a tool name. Defaults to exec.LookPath.
	LookPath func(name string) (string, error)
}

// New fills in the default runner and lookup for a Base.
func New(workspaceRoot string, timeout time.Duration, logf func(string, ...any)) Base {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	runner := core.Runner{}
	return Base{
		WorkspaceRoot: workspaceRoot,
		Timeout:       timeout,
		Logf:          logf,
		Exec:          runner.Run,
		LookPath:      exec.LookPath,
	}
}

// ToolPresent reports whether the named executable is available.
func (b Base) ToolPresent(name string) bool {
	_, err := b.LookPath(name)
	return err == nil
}

// Tail keeps the last part of combined tool output so a verbose test run
// does not flood the warning stream.
func Tail(s string) string {
	const max = 400
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}

// RunTool invokes a tool with an explicit working directory. A non-zero
// exit is not an error of the pipeline: it comes back as failed=true with
// the captured output, and the caller still goes looking for a report,
// since failing tests routinely leave partial coverage data behind. Any other
// error (tool refused to start, context cancelled) is returned as err.
func (b Base) RunTool(ctx context.Context, dir, name string, args ...string) (output string, failed bool, err error) {
	out, err := b.Exec(ctx, core.Invocation{
		Dir:     dir,
		Name:    name,
		Args:    args,
		Timeout: b.Timeout,
	})
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, true, nil
		}
		return out, false, fmt.Errorf("running %s: %w", name, err)
	}
	return out, false, nil
}
