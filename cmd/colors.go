package cmd

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// formatCheckSet colors a registry set label for listings.
func formatCheckSet(set string) string {
	switch set {
	case "default":
		return colorSuccess(set)
	case "opt-in":
		return colorWarn(set)
	default:
		return set
	}
}

// formatExists renders a presence marker for paths shown by info.
func formatExists(exists bool, missing string) string {
	if exists {
		return colorSuccess("✓ (exists)")
	}
	return colorWarn(fmt.Sprintf("✗ (%s)", missing))
}
