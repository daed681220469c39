package checks

import (
	"context"
	"path/filepath"

	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/spf13/afero"
)

var (
	chromeExtensionsDir = filepath.Join("Library", "Application Support", "Google", "Chrome", "Default", "Extensions")
	firefoxProfilesDir  = filepath.Join("Library", "Application Support", "Firefox", "Profiles")
	safariExtensionsDir = filepath.Join("Library", "Containers", "com.apple.Safari", "Data", "Library", "Safari", "Extensions")
)

// BrowserExt counts installed browser extensions under the user's home.
type BrowserExt struct {
	Env checker.Env
}

// NewBrowserExt returns the browser extension inventory check.
func NewBrowserExt(env checker.Env) *BrowserExt {
	return &BrowserExt{Env: env}
}

func (c *BrowserExt) Name() string { return "browserext" }

func (c *BrowserExt) Run(_ context.Context, verbose bool) checker.Result {
	var res checker.Result
	c.Env.Narrate(verbose, "counting browser extensions")

	fs := c.Env.Filesystem()
	chrome := countEntries(fs, filepath.Join(c.Env.Home, chromeExtensionsDir))
	safari := countEntries(fs, filepath.Join(c.Env.Home, safariExtensionsDir))

	firefox := 0
	profiles, _ := afero.ReadDir(fs, filepath.Join(c.Env.Home, firefoxProfilesDir))
	for _, profile := range profiles {
		if profile.IsDir() {
			firefox += countEntries(fs, filepath.Join(c.Env.Home, firefoxProfilesDir, profile.Name(), "extensions"))
		}
	}

	res.Infof("Browser extensions detected: Chrome=%d, Safari=%d, Firefox=%d, Total=%d.",
		chrome, safari, firefox, chrome+safari+firefox)

	return res
}

// countEntries returns the number of entries in dir, or 0 if it is missing.
func countEntries(fs afero.Fs, dir string) int {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return 0
	}
	return len(entries)
}
