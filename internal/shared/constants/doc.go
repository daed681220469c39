// Package constants centralizes configuration defaults shared across the CLI.
//
// File permissions, the command timeout, the reports directory and the report
// naming scheme live here so cmd/ and internal/ agree on them without import
// cycles.
package constants
