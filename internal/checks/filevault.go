package checks

import (
	"context"
	"strings"

	"github.com/khanhnv2901/macsecscan/internal/checker"
)

// FileVault reports whether full-disk encryption is enabled. A disabled
// FileVault is the one posture weakness this check classifies as a threat.
type FileVault struct {
	Env checker.Env
}

// NewFileVault returns the disk encryption check.
func NewFileVault(env checker.Env) *FileVault {
	return &FileVault{Env: env}
}

func (c *FileVault) Name() string { return "filevault" }

func (c *FileVault) Run(ctx context.Context, verbose bool) checker.Result {
	var res checker.Result
	c.Env.Narrate(verbose, "checking FileVault status")

	out := c.Env.Run(ctx, "fdesetup", "status")
	switch {
	case out.NotFound():
		res.AddInfo("`fdesetup` not found. Unable to check FileVault status.")
		return res
	case out.TimedOut():
		res.AddInfo(timedOut("FileVault"))
		return res
	}

	text := out.Combined()
	switch {
	case strings.Contains(text, "FileVault is On"):
		res.AddInfo("FileVault: Enabled.")
	case strings.Contains(text, "FileVault is Off"), strings.Contains(text, "Off"):
		res.AddThreat("FileVault is disabled. Enable disk encryption in System Settings > Privacy & Security > FileVault.")
	default:
		res.AddInfo("Unable to determine FileVault status.")
	}

	return res
}
