package checks

import (
	"context"
	"slices"
	"strings"

	"github.com/khanhnv2901/macsecscan/internal/checker"
)

// UserAudit lists members of the local admin group. Without an allowlist it
// cannot tell expected from unexpected accounts, so it only counts them.
type UserAudit struct {
	Env       checker.Env
	Allowlist []string
}

// NewUserAudit returns the admin group check. A nil allowlist only counts members.
func NewUserAudit(env checker.Env, allowlist []string) *UserAudit {
	return &UserAudit{Env: env, Allowlist: allowlist}
}

func (c *UserAudit) Name() string { return "useraudit" }

func (c *UserAudit) Run(ctx context.Context, verbose bool) checker.Result {
	var res checker.Result
	c.Env.Narrate(verbose, "auditing admin group membership")

	out := c.Env.Run(ctx, "dscl", ".", "-read", "/Groups/admin", "GroupMembership")
	switch {
	case out.NotFound():
		res.AddInfo("`dscl` not found. Unable to audit admin users.")
		return res
	case out.TimedOut():
		res.AddInfo(timedOut("Admin user audit"))
		return res
	}

	members := parseGroupMembership(out.Stdout)
	if len(members) == 0 {
		res.AddInfo("No admin users found or unable to parse admin group membership.")
		return res
	}

	if len(c.Allowlist) == 0 {
		res.Infof("Admin users: %d expected accounts found.", len(members))
		return res
	}

	expected := 0
	for _, m := range members {
		if slices.Contains(c.Allowlist, m) {
			expected++
			continue
		}
		res.Threatf("Unexpected admin account: %s. Remove admin rights if this account is not recognised.", m)
	}
	res.Infof("Admin users: %d expected accounts found.", expected)

	return res
}

// parseGroupMembership reads "GroupMembership: a b c" from the first line.
func parseGroupMembership(stdout string) []string {
	lines := nonEmptyLines(stdout)
	if len(lines) == 0 {
		return nil
	}
	_, rest, ok := strings.Cut(lines[0], ":")
	if !ok {
		return nil
	}
	return strings.Fields(rest)
}
