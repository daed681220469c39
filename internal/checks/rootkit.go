package checks

import (
	"context"

	"github.com/khanhnv2901/macsecscan/internal/checker"
)

// Rootkit is advisory only; modern macOS restricts kernel extensions and deep
// inspection needs dedicated tooling.
type Rootkit struct {
	Env checker.Env
}

// NewRootkit returns the advisory rootkit check.
func NewRootkit(env checker.Env) *Rootkit {
	return &Rootkit{Env: env}
}

func (c *Rootkit) Name() string { return "rootkit" }

func (c *Rootkit) Run(_ context.Context, verbose bool) checker.Result {
	var res checker.Result
	c.Env.Narrate(verbose, "rootkit advisory")
	res.AddInfo("Rootkit check: No specific indicators scanned. For advanced analysis, use specialized tools (e.g., KnockKnock, LuLu).")
	return res
}
