// Package redact masks user-identifying fragments in command output before it
// is embedded in a finding.
package redact

import (
	"regexp"
	"strings"
)

const (
	// Placeholder replaces a home-directory segment or a back-quoted span.
	Placeholder = "[REDACTED]"
)

var (
	homeSegment = regexp.MustCompile(`(/(?:Users|home)/)[^/\n]+/`)
	backQuoted  = regexp.MustCompile("`[^`]+`")
)

// String masks home-directory path segments (/Users/<name>/, /home/<name>/) and
// back-quoted command fragments. It never fails: on any internal error the
// input is returned unchanged. Applying it twice yields the same text.
func String(text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = text
		}
	}()

	out = text
	// Masking one pattern can expose the other; stop once a pass changes nothing.
	for range len(text) + 1 {
		next := backQuoted.ReplaceAllString(maskHomeSegments(out), Placeholder)
		if next == out {
			break
		}
		out = next
	}
	return out
}

// Lines applies String to every entry.
func Lines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = String(line)
	}
	return out
}

// maskHomeSegments keeps each match's trailing slash in play so adjacent
// segments ("/Users/a/Users/b/") are both masked.
func maskHomeSegments(text string) string {
	var b strings.Builder
	pos := 0
	for pos < len(text) {
		loc := homeSegment.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		b.WriteString(text[pos : pos+loc[3]])
		b.WriteString(Placeholder)
		pos += loc[1] - 1
	}
	b.WriteString(text[pos:])
	return b.String()
}
