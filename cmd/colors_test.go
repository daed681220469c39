package cmd

import (
	"testing"

	"github.com/fatih/color"
)

func disableColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})
}

func TestFormatCheckSet(t *testing.T) {
	disableColor(t)

	tests := []struct {
		name string
		set  string
		want string
	}{
		{name: "default", set: "default", want: "default"},
		{name: "opt-in", set: "opt-in", want: "opt-in"},
		{name: "unknown", set: "other", want: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCheckSet(tt.set); got != tt.want {
				t.Fatalf("formatCheckSet(%q) = %q, want %q", tt.set, got, tt.want)
			}
		})
	}
}

func TestFormatExists(t *testing.T) {
	disableColor(t)

	if got := formatExists(true, "missing"); got != "✓ (exists)" {
		t.Fatalf("unexpected marker %q", got)
	}
	if got := formatExists(false, "not created yet"); got != "✗ (not created yet)" {
		t.Fatalf("unexpected marker %q", got)
	}
}
