// Package executor runs external diagnostic commands with a bounded timeout.
//
// Missing executables and timeouts are not errors: they come back as ordinary
// Results carrying ExitNotFound (127) or ExitTimeout (124) so checks can turn
// them into informational findings. ExitNotFound is only used when the
// process never started.
package executor

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/shared/constants"
	"go.uber.org/zap"
)

const (
	// ExitTimeout is synthesized when a command exceeds its timeout.
	ExitTimeout = 124
	// ExitNotFound is synthesized when the executable cannot be located or started.
	ExitNotFound = 127

	// MsgTimedOut is the stderr text of a timed out Result.
	MsgTimedOut = "Command timed out"
	// MsgCanceled is the stderr text when the caller's context ends first.
	// It carries ExitTimeout: no result was collected either way.
	MsgCanceled = "Command canceled"
	// MsgNotFoundPrefix starts the stderr text of a not-found Result.
	MsgNotFoundPrefix = "Command not found: "

	// waitDelay bounds how long we wait for pipes after the process is killed.
	waitDelay = 2 * time.Second
)

// Result holds the outcome of one command invocation.
type Result struct {
	Command  []string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// OK reports whether the command exited with status 0.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// NotFound reports whether the executable was missing.
func (r Result) NotFound() bool {
	return r.ExitCode == ExitNotFound
}

// TimedOut reports whether the command exceeded its timeout.
func (r Result) TimedOut() bool {
	return r.ExitCode == ExitTimeout
}

// Combined returns stdout followed by stderr on a new line, if any.
func (r Result) Combined() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	return r.Stdout + "\n" + r.Stderr
}

// Executor runs a command and never returns an error for missing tools or timeouts.
type Executor interface {
	Execute(ctx context.Context, argv []string, timeout time.Duration) Result
}

// Func adapts a plain function to the Executor interface.
type Func func(ctx context.Context, argv []string, timeout time.Duration) Result

// Execute calls f.
func (f Func) Execute(ctx context.Context, argv []string, timeout time.Duration) Result {
	return f(ctx, argv, timeout)
}

// Option configures a CommandExecutor.
type Option func(*CommandExecutor)

// WithLogger sets the logger used for debug narration.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *CommandExecutor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDefaultTimeout overrides the timeout applied when callers pass <= 0.
func WithDefaultTimeout(d time.Duration) Option {
	return func(e *CommandExecutor) {
		if d > 0 {
			e.defaultTimeout = d
		}
	}
}

// CommandExecutor is the os/exec backed Executor.
type CommandExecutor struct {
	logger         *zap.SugaredLogger
	defaultTimeout time.Duration
}

// New creates a CommandExecutor.
func New(opts ...Option) *CommandExecutor {
	e := &CommandExecutor{
		logger:         zap.NewNop().Sugar(),
		defaultTimeout: constants.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultTimeout returns the timeout applied when callers pass <= 0.
func (e *CommandExecutor) DefaultTimeout() time.Duration {
	return e.defaultTimeout
}

// Execute runs argv with the given timeout, capturing stdout and stderr in full.
func (e *CommandExecutor) Execute(ctx context.Context, argv []string, timeout time.Duration) Result {
	command := append([]string(nil), argv...)
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return notFound(command, "")
	}
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}

	if _, err := exec.LookPath(command[0]); err != nil {
		e.logger.Debugw("executable not found", "command", command[0], "error", err)
		return notFound(command, command[0])
	}

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, command[0], command[1:]...) // #nosec G204 -- argv is fixed by each check, no shell involved.
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start)

	res := Result{
		Command:  command,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			e.logger.Debugw("command timed out", "command", command, "timeout", timeout)
			return Result{Command: command, ExitCode: ExitTimeout, Stderr: MsgTimedOut, Duration: duration}
		case runCtx.Err() != nil:
			e.logger.Debugw("command canceled", "command", command, "error", runCtx.Err())
			return Result{Command: command, ExitCode: ExitTimeout, Stderr: MsgCanceled, Duration: duration}
		case errors.As(err, &exitErr):
			res.ExitCode = exitErr.ExitCode()
		case cmd.ProcessState != nil:
			// The process exited but a background child kept a pipe open
			// past WaitDelay; the exit status and captured output stand.
			e.logger.Debugw("command output pipes outlived the process", "command", command, "error", err)
			res.ExitCode = cmd.ProcessState.ExitCode()
		default:
			// Never started: missing binary, permission denied and friends.
			e.logger.Debugw("command failed to start", "command", command, "error", err)
			return notFound(command, command[0])
		}
	}

	e.logger.Debugw("command completed",
		"command", command,
		"exit_code", res.ExitCode,
		"duration", duration,
		"stdout_bytes", len(res.Stdout),
		"stderr_bytes", len(res.Stderr),
	)

	return res
}

func notFound(command []string, name string) Result {
	return Result{
		Command:  command,
		ExitCode: ExitNotFound,
		Stderr:   MsgNotFoundPrefix + name,
	}
}
