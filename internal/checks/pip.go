package checks

import (
	"context"

	"github.com/khanhnv2901/macsecscan/internal/checker"
)

// Pip reports outdated Python packages.
type Pip struct {
	Env checker.Env
}

// NewPip returns the pip outdated check.
func NewPip(env checker.Env) *Pip {
	return &Pip{Env: env}
}

func (c *Pip) Name() string { return "pip" }

func (c *Pip) Run(ctx context.Context, verbose bool) checker.Result {
	var res checker.Result
	c.Env.Narrate(verbose, "checking pip for outdated packages")

	out := c.Env.Run(ctx, "python3", "-m", "pip", "list", "--outdated", "--format=json")
	switch {
	case out.NotFound():
		res.AddInfo("pip not found. Use `python3 -m ensurepip` or install Python/pip to enable pip checks.")
		return res
	case out.TimedOut():
		res.AddInfo(timedOut("pip outdated"))
		return res
	case !out.OK():
		res.AddInfo("Unable to run pip outdated check.")
		return res
	}

	count, ok := countJSON(out.Stdout, "[]")
	switch {
	case !ok:
		res.AddInfo("Unable to parse pip output; run `pip list --outdated` manually.")
	case count > 0:
		res.Infof("pip: %d outdated package(s) detected. Consider `pip install -U <name>`.", count)
	default:
		res.AddInfo("No outdated pip packages found.")
	}

	return res
}
