package checks

import (
	"context"
	"path/filepath"

	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/khanhnv2901/macsecscan/internal/redact"
	"github.com/spf13/afero"
)

// Persistence counts launch agents and daemons in the standard locations.
type Persistence struct {
	Env checker.Env
}

// NewPersistence returns the launch agent and daemon inventory check.
func NewPersistence(env checker.Env) *Persistence {
	return &Persistence{Env: env}
}

func (c *Persistence) Name() string { return "persistence" }

// Dirs returns the directories inspected, system locations first.
func (c *Persistence) Dirs() []string {
	return []string{
		"/Library/LaunchAgents",
		"/Library/LaunchDaemons",
		filepath.Join(c.Env.Home, "Library", "LaunchAgents"),
	}
}

func (c *Persistence) Run(_ context.Context, verbose bool) checker.Result {
	var res checker.Result
	fs := c.Env.Filesystem()

	total := 0
	for _, dir := range c.Dirs() {
		c.Env.Narrate(verbose, "inspecting persistence location", "dir", dir)

		if ok, _ := afero.IsDir(fs, dir); !ok {
			res.AddInfo("Directory not found: " + redact.String(dir))
			continue
		}
		count := countEntries(fs, dir)
		res.Infof("Persistence items in %s: %d", redact.String(dir), count)
		total += count
	}

	if total == 0 {
		res.AddInfo("No persistence items detected in standard locations.")
	}

	return res
}
