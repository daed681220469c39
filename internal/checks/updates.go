package checks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/khanhnv2901/macsecscan/internal/executor"
)

const (
	updateAttempts = 2
	updateDelay    = 2 * time.Second
	updateMaxDelay = 10 * time.Second
)

var errUpdateTimeout = errors.New("softwareupdate timed out")

// MacUpdates asks softwareupdate for pending macOS updates. The catalog
// lookup is network bound, so a timed out attempt is retried.
type MacUpdates struct {
	Env   checker.Env
	Delay time.Duration // Pause before the second attempt
}

// NewMacUpdates returns the check with the default retry delay.
func NewMacUpdates(env checker.Env) *MacUpdates {
	return &MacUpdates{Env: env, Delay: updateDelay}
}

func (c *MacUpdates) Name() string { return "mac-updates" }

func (c *MacUpdates) Run(ctx context.Context, verbose bool) checker.Result {
	var res checker.Result
	c.Env.Narrate(verbose, "checking for macOS software updates")

	var out executor.Result
	err := retry.Do(
		func() error {
			out = c.Env.Run(ctx, "softwareupdate", "-l")
			if out.TimedOut() {
				c.Env.Narrate(verbose, "softwareupdate timed out, retrying")
				return errUpdateTimeout
			}
			return nil
		},
		retry.Attempts(updateAttempts),
		retry.Delay(c.Delay),
		retry.MaxDelay(updateMaxDelay),
		retry.Context(ctx),
	)

	switch {
	case out.NotFound():
		res.AddInfo("`softwareupdate` tool not found. Unable to check macOS updates.")
	case err != nil || out.TimedOut():
		res.AddInfo(timedOut("macOS update"))
	case strings.Contains(out.Combined(), "No new software available"):
		res.AddInfo("No macOS updates found.")
	default:
		res.AddInfo("macOS updates may be available. Open System Settings > General > Software Update.")
	}

	return res
}
