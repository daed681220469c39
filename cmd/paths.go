package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/khanhnv2901/macsecscan/internal/checks/plugin"
	"github.com/khanhnv2901/macsecscan/internal/shared/constants"
)

const (
	appDirName    = "macsecscan"
	dataDirEnvVar = "MACSECSCAN_DATA_DIR"
)

// getDataDir returns the per-user data directory holding plugins and
// telemetry. Reports never go here. MACSECSCAN_DATA_DIR overrides the
// platform default, which follows the XDG Base Directory layout on Linux.
func getDataDir() (string, error) {
	var baseDir string

	switch {
	case os.Getenv(dataDirEnvVar) != "":
		baseDir = os.Getenv(dataDirEnvVar)

	case runtime.GOOS == "darwin":
		// macOS: ~/Library/Application Support/macsecscan
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support", appDirName)

	default:
		// $XDG_DATA_HOME/macsecscan > ~/.local/share/macsecscan
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			baseDir = filepath.Join(xdgDataHome, appDirName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("could not determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".local", "share", appDirName)
		}
	}

	if err := os.MkdirAll(baseDir, constants.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return baseDir, nil
}

// pluginsDir returns where YAML plugin definitions are read from.
func pluginsDir(dataDir string) string {
	return filepath.Join(dataDir, plugin.DirName)
}
