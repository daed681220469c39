package checks

import (
	"fmt"
	"strings"

	"github.com/khanhnv2901/macsecscan/internal/executor"
)

// timedOut is the finding for a command that exceeded its bound.
func timedOut(label string) string {
	return fmt.Sprintf("%s check timed out; no result collected.", label)
}

// nonEmptyLines returns trimmed, non-blank lines of text.
func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// exitIn reports whether the result's exit code is one of codes.
func exitIn(res executor.Result, codes ...int) bool {
	for _, c := range codes {
		if res.ExitCode == c {
			return true
		}
	}
	return false
}
