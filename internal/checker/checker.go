package checker

import (
	"context"
	"fmt"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/executor"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Check is the interface that every diagnostic must satisfy.
type Check interface {
	// Name returns the identifier of this check (e.g., "brew", "filevault").
	Name() string

	// Run inspects one subsystem and classifies what it finds. verbose only
	// controls narration; it must never change the returned findings.
	Run(ctx context.Context, verbose bool) Result
}

// Kind classifies a finding by the report it lands in.
type Kind int

const (
	KindInfo Kind = iota
	KindThreat
)

func (k Kind) String() string {
	if k == KindThreat {
		return "threat"
	}
	return "info"
}

// Finding is a single report line tagged with its classification and origin.
type Finding struct {
	Kind   Kind   `json:"kind"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Result is the (informational, threats) pair every check returns.
type Result struct {
	Info    []string `json:"info"`
	Threats []string `json:"threats"`
}

// AddInfo appends informational findings.
func (r *Result) AddInfo(lines ...string) {
	r.Info = append(r.Info, lines...)
}

// AddThreat appends threat findings.
func (r *Result) AddThreat(lines ...string) {
	r.Threats = append(r.Threats, lines...)
}

// Infof appends a formatted informational finding.
func (r *Result) Infof(format string, args ...any) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// Threatf appends a formatted threat finding.
func (r *Result) Threatf(format string, args ...any) {
	r.Threats = append(r.Threats, fmt.Sprintf(format, args...))
}

// Merge appends other after r, preserving order in both lists.
func (r *Result) Merge(other Result) {
	r.Info = append(r.Info, other.Info...)
	r.Threats = append(r.Threats, other.Threats...)
}

// HasThreats reports whether any threat finding was produced.
func (r Result) HasThreats() bool {
	return len(r.Threats) > 0
}

// Findings flattens the result into tagged findings, informational first.
func (r Result) Findings(source string) []Finding {
	out := make([]Finding, 0, len(r.Info)+len(r.Threats))
	for _, text := range r.Info {
		out = append(out, Finding{Kind: KindInfo, Text: text, Source: source})
	}
	for _, text := range r.Threats {
		out = append(out, Finding{Kind: KindThreat, Text: text, Source: source})
	}
	return out
}

// ScanRun is the aggregate of one invocation: its timestamp and merged findings.
type ScanRun struct {
	Timestamp time.Time
	Result    Result
}

// NewScanRun starts a run at the given time.
func NewScanRun(at time.Time) *ScanRun {
	return &ScanRun{Timestamp: at}
}

// Env bundles what concrete checks need to inspect the host.
type Env struct {
	Exec    executor.Executor
	FS      afero.Fs
	Log     *zap.SugaredLogger
	Home    string
	Timeout time.Duration
}

// Run executes argv through the configured executor using the env timeout.
func (e Env) Run(ctx context.Context, argv ...string) executor.Result {
	return e.RunWithTimeout(ctx, e.Timeout, argv...)
}

// RunWithTimeout is Run with an explicit bound, for long running scans.
func (e Env) RunWithTimeout(ctx context.Context, timeout time.Duration, argv ...string) executor.Result {
	if e.Exec == nil {
		return executor.Result{Command: argv, ExitCode: executor.ExitNotFound, Stderr: executor.MsgNotFoundPrefix + firstArg(argv)}
	}
	return e.Exec.Execute(ctx, argv, timeout)
}

// Narrate logs progress when verbose is set. Findings never flow through here.
func (e Env) Narrate(verbose bool, msg string, keysAndValues ...any) {
	if !verbose || e.Log == nil {
		return
	}
	e.Log.Infow(msg, keysAndValues...)
}

// Filesystem returns the configured filesystem or the OS one.
func (e Env) Filesystem() afero.Fs {
	if e.FS == nil {
		return afero.NewOsFs()
	}
	return e.FS
}

func firstArg(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	return argv[0]
}
