package checks

import (
	"context"
	"strings"

	"github.com/khanhnv2901/macsecscan/internal/checker"
)

// NetPorts counts local listening sockets. Listeners are reported, not
// judged: without knowing which services are expected none is a threat.
type NetPorts struct {
	Env checker.Env
}

// NewNetPorts returns the listening socket count check.
func NewNetPorts(env checker.Env) *NetPorts {
	return &NetPorts{Env: env}
}

func (c *NetPorts) Name() string { return "netports" }

func (c *NetPorts) Run(ctx context.Context, verbose bool) checker.Result {
	var res checker.Result
	c.Env.Narrate(verbose, "listing open network ports")

	out := c.Env.Run(ctx, "lsof", "-i", "-P", "-n")
	switch {
	case out.NotFound():
		res.AddInfo("`lsof` not found. Unable to list open network ports.")
		return res
	case out.TimedOut():
		res.AddInfo(timedOut("Network port"))
		return res
	}

	listening := 0
	for _, line := range strings.Split(out.Stdout, "\n") {
		if strings.Contains(line, "LISTEN") {
			listening++
		}
	}

	if listening > 0 {
		res.Infof("Open network listeners detected: %d. Review for unexpected services.", listening)
	} else {
		res.AddInfo("No open network listeners detected.")
	}

	return res
}
