// Package hook invokes a plugin's setup script.
//
// The manager never needs to know what a hook does, only its invocation mode
// and exit status. Hooks run under a deadline so a hung script cannot wedge
// the UI forever.
package hook

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Mode selects what the setup script is asked to do.
type Mode string

const (
	Install   Mode = "--install"
	Uninstall Mode = "--uninstall"
	On        Mode = "--on"
	Off       Mode = "--off"
)

// DefaultTimeout bounds hook execution when no setting overrides it.
const DefaultTimeout = 120 * time.Second

// Result carries what a hook run produced, for the activity log.
type Result struct {
	Ran    bool // false when the plugin ships no setup script
	Output string
}

// Runner executes setup scripts.
type Runner struct {
	Timeout time.Duration
}

// NewRunner returns a Runner with the given timeout, or DefaultTimeout when
// timeout is zero.
func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{Timeout: timeout}
}

// Run executes script with the given mode from dir. A missing script is not
// an error: Result.Ran is false and err is nil. A non-zero exit or a timeout
// surfaces as err, with any captured output in Result.
func (r *Runner) Run(ctx context.Context, script, dir string, mode Mode) (Result, error) {
	if _, err := os.Stat(script); err != nil {
		return Result{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, script, string(mode))
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	res := Result{Ran: true, Output: strings.TrimSpace(string(out))}
	if ctx.Err() == context.DeadlineExceeded {
		return res, fmt.Errorf("setup script timed out after %s", r.Timeout)
	}
	if err != nil {
		return res, fmt.Errorf("setup script %s failed: %w", mode, err)
	}
	return res, nil
}

// Refresh runs the downstream refresh command, the external collaborator
// that re-applies the theme after plugin state changes. Best effort: the
// caller logs a failure and moves on.
func (r *Runner) Refresh(ctx context.Context, command string) (Result, error) {
	if command == "" {
		return Result{}, nil
	}
	fields := strings.Fields(command)
	if _, err := exec.LookPath(fields[0]); err != nil {
		return Result{}, fmt.Errorf("refresh command %q not found", fields[0])
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	out, err := cmd.CombinedOutput()
	res := Result{Ran: true, Output: strings.TrimSpace(string(out))}
	if err != nil {
		return res, fmt.Errorf("refresh command failed: %w", err)
	}
	return res, nil
}
