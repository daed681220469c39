package checks

import (
	"context"

	"github.com/khanhnv2901/macsecscan/internal/checker"
)

// Brew reports outdated Homebrew formulae.
type Brew struct {
	Env checker.Env
}

// NewBrew returns the Homebrew outdated check.
func NewBrew(env checker.Env) *Brew {
	return &Brew{Env: env}
}

func (c *Brew) Name() string { return "brew" }

func (c *Brew) Run(ctx context.Context, verbose bool) checker.Result {
	var res checker.Result
	c.Env.Narrate(verbose, "checking Homebrew for outdated packages")

	out := c.Env.Run(ctx, "brew", "outdated", "--verbose")
	switch {
	case out.NotFound():
		res.AddInfo("Homebrew not found. Install with `brew install` from https://brew.sh to enable outdated software checks.")
		return res
	case out.TimedOut():
		res.AddInfo(timedOut("Homebrew outdated"))
		return res
	case !exitIn(out, 0, 1):
		res.AddInfo("Unable to run Homebrew outdated check.")
		return res
	}

	// brew exits 0 or 1 depending on version; the listing is what matters.
	if lines := nonEmptyLines(out.Stdout); len(lines) > 0 {
		res.Infof("Homebrew: %d outdated package(s) detected. Consider `brew upgrade`.", len(lines))
	} else {
		res.AddInfo("No outdated Homebrew packages found. Your system is up to date!")
	}

	return res
}
