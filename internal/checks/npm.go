package checks

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/khanhnv2901/macsecscan/internal/checker"
)

// Npm reports outdated globally installed npm packages.
type Npm struct {
	Env checker.Env
}

// NewNpm returns the global npm outdated check.
func NewNpm(env checker.Env) *Npm {
	return &Npm{Env: env}
}

func (c *Npm) Name() string { return "npm" }

func (c *Npm) Run(ctx context.Context, verbose bool) checker.Result {
	var res checker.Result
	c.Env.Narrate(verbose, "checking global npm packages")

	out := c.Env.Run(ctx, "npm", "-g", "outdated", "--json")
	switch {
	case out.NotFound():
		res.AddInfo("npm not found. Install Node.js (`brew install node`) to enable npm checks.")
		return res
	case out.TimedOut():
		res.AddInfo(timedOut("npm outdated"))
		return res
	case !exitIn(out, 0, 1): // npm exits 1 when outdated packages exist
		res.AddInfo("Unable to run npm outdated check.")
		return res
	}

	count, ok := countJSON(out.Stdout, "{}")
	switch {
	case ok && count > 0:
		res.Infof("npm (global): %d outdated package(s) detected. Consider `npm update -g`.", count)
	case ok:
		res.AddInfo("No outdated global npm packages found.")
	case strings.TrimSpace(out.Stdout) != "":
		res.AddInfo("npm outdated packages detected. Consider updating globally with `npm update -g`.")
	default:
		res.AddInfo("No outdated global npm packages found.")
	}

	return res
}

// countJSON returns the number of entries of a JSON object or array. Empty
// input decodes as fallback. ok is false when the text is not a collection.
func countJSON(text, fallback string) (int, bool) {
	if strings.TrimSpace(text) == "" {
		text = fallback
	}

	var data any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return 0, false
	}

	switch v := data.(type) {
	case map[string]any:
		return len(v), true
	case []any:
		return len(v), true
	default:
		return 0, false
	}
}
