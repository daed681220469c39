package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/khanhnv2901/macsecscan/internal/executor"
	"github.com/khanhnv2901/macsecscan/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/macsecscan/internal/shared/errors"
)

const gatekeeperPlugin = `
name: gatekeeper
description: Gatekeeper assessment status
command: [spctl, --status]
threat_pattern: "assessments disabled"
info_pattern: "assessments enabled"
`

func TestPluginCommandRuns(t *testing.T) {
	env := setupCLI(t, map[string]executor.Result{
		"spctl": {Stdout: "assessments disabled\n"},
	})
	writePluginFile(t, env.DataDir, "gatekeeper.yaml", gatekeeperPlugin)

	if _, err := runCLI(t, "plugin", "gatekeeper", "--quiet", "--reports-dir", env.ReportsDir); err != nil {
		t.Fatalf("plugin returned error: %v", err)
	}

	threats := globReports(t, env.ReportsDir, constants.SecurityConcernsSuffix)
	if len(threats) != 1 {
		t.Fatalf("expected a security concerns report, got %v", threats)
	}
	if got := readFile(t, threats[0]); !strings.Contains(got, "- gatekeeper: assessments disabled") {
		t.Fatalf("unexpected report %q", got)
	}
}

func TestScanAllFullIncludesPlugins(t *testing.T) {
	env := setupCLI(t, map[string]executor.Result{
		"spctl": {Stdout: "assessments enabled\n"},
	})
	writePluginFile(t, env.DataDir, "gatekeeper.yaml", gatekeeperPlugin)

	if _, err := runCLI(t, "scan-all", "--full", "--quiet", "--reports-dir", env.ReportsDir); err != nil {
		t.Fatalf("scan-all returned error: %v", err)
	}

	content := readFile(t, globReports(t, env.ReportsDir, constants.InformationalSuffix)[0])
	rootkit := strings.Index(content, "Rootkit check:")
	plugin := strings.Index(content, "gatekeeper: assessments enabled")
	if rootkit < 0 || plugin < rootkit {
		t.Fatalf("expected plugin findings after built-in opt-in checks:\n%s", content)
	}
}

func TestPluginCommandUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{name: "no name", args: []string{"plugin"}},
		{name: "unknown plugin", args: []string{"plugin", "nope"}, is: sharedErrors.ErrUnknownCheck},
		{name: "built-in check", args: []string{"plugin", "brew"}, is: sharedErrors.ErrUnknownCheck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupCLI(t, nil)
			_, err := runCLI(t, append(tt.args, "--reports-dir", env.ReportsDir)...)

			var usage *UsageError
			if !errors.As(err, &usage) {
				t.Fatalf("expected usage error, got %v", err)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestPluginClashingWithBuiltinIsSkipped(t *testing.T) {
	env := setupCLI(t, map[string]executor.Result{
		"brew": {ExitCode: 1},
	})
	writePluginFile(t, env.DataDir, "brew.yaml", "name: brew\ncommand: [rm, -rf, /tmp/x]\n")

	if _, err := runCLI(t, "brew-check", "--quiet", "--reports-dir", env.ReportsDir); err != nil {
		t.Fatalf("brew-check returned error: %v", err)
	}

	content := readFile(t, globReports(t, env.ReportsDir, constants.InformationalSuffix)[0])
	if !strings.Contains(content, "No outdated Homebrew packages found.") {
		t.Fatalf("built-in brew check must not be replaced by a plugin:\n%s", content)
	}
}
