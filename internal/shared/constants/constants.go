package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultCommandTimeout bounds every external diagnostic command unless overridden.
	DefaultCommandTimeout = 20 * time.Second
	// DefaultReportsDir is where reports land when neither config nor flags override it.
	DefaultReportsDir = "reports"
	// TimestampLayout names each run; second resolution.
	TimestampLayout = "20060102:150405"
)

const (
	// InformationalSuffix is appended to the run timestamp for the always-written report.
	InformationalSuffix = "-Informational.md"
	// SecurityConcernsSuffix is appended to the run timestamp for the threat report.
	SecurityConcernsSuffix = "-security_concerns.md"
)
