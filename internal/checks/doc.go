// Package checks holds the concrete host diagnostics.
//
// Each check drives external tools through checker.Env.Run and/or reads well
// known directories through checker.Env.FS. Parsing is deliberately tolerant:
// a missing tool, a timeout, unexpected exit status, malformed output or an
// absent directory all become informational findings, never errors.
package checks
