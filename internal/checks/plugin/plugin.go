// Package plugin turns YAML check definitions into opt-in checks.
//
// A definition names an external command and two optional regular
// expressions. Output lines matching threat_pattern become threat findings;
// lines matching info_pattern become informational findings. Both are
// redacted before they reach a report.
//
//	name: gatekeeper
//	description: Gatekeeper assessment status
//	command: ["spctl", "--status"]
//	timeout: 5
//	threat_pattern: "assessments disabled"
//	info_pattern: "assessments enabled"
package plugin

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/khanhnv2901/macsecscan/internal/redact"
	sharedErrors "github.com/khanhnv2901/macsecscan/internal/shared/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// DirName is the plugins directory below the data directory.
	DirName = "plugins"

	currentAPIVersion     = 1
	defaultTimeoutSeconds = 10
)

var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Definition is one YAML plugin file.
type Definition struct {
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	Command        []string `yaml:"command"`
	TimeoutSeconds int      `yaml:"timeout"`
	ThreatPattern  string   `yaml:"threat_pattern"`
	InfoPattern    string   `yaml:"info_pattern"`
	APIVersion     int      `yaml:"api_version"`
}

// Validate checks required fields and compiles both patterns.
func (d Definition) Validate() error {
	if !validName.MatchString(d.Name) {
		return fmt.Errorf("%w: name %q must be lowercase letters, digits, '-' or '_'", sharedErrors.ErrInvalidPlugin, d.Name)
	}
	if len(d.Command) == 0 || strings.TrimSpace(d.Command[0]) == "" {
		return fmt.Errorf("%w: %s", sharedErrors.ErrEmptyCommand, d.Name)
	}
	if d.APIVersion != 0 && d.APIVersion != currentAPIVersion {
		return fmt.Errorf("%w: unsupported api_version %d (expected %d)", sharedErrors.ErrInvalidPlugin, d.APIVersion, currentAPIVersion)
	}
	for _, p := range []string{d.ThreatPattern, d.InfoPattern} {
		if p == "" {
			continue
		}
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: %s: %v", sharedErrors.ErrInvalidPattern, d.Name, err)
		}
	}
	return nil
}

// Timeout returns the command bound, defaulting to 10 seconds.
func (d Definition) Timeout() time.Duration {
	if d.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// Load reads every *.yaml and *.yml file in dir, in name order. A missing
// directory yields no definitions. Unreadable or invalid files, and names
// already taken by an earlier file, are skipped with a warning.
func Load(fs afero.Fs, dir string, log *zap.SugaredLogger) ([]Definition, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	if ok, err := afero.DirExists(fs, dir); err != nil || !ok {
		return nil, nil
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read plugins dir: %w", err)
	}

	seen := make(map[string]bool)
	defs := make([]Definition, 0, len(entries))
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			log.Warnw("failed to read plugin", "file", entry.Name(), "error", err)
			continue
		}

		var def Definition
		if err := yaml.Unmarshal(data, &def); err != nil {
			log.Warnw("failed to parse plugin", "file", entry.Name(), "error", err)
			continue
		}
		if err := def.Validate(); err != nil {
			log.Warnw("invalid plugin", "file", entry.Name(), "error", err)
			continue
		}
		if seen[def.Name] {
			log.Warnw("duplicate plugin name", "file", entry.Name(), "name", def.Name)
			continue
		}

		seen[def.Name] = true
		defs = append(defs, def)
	}

	return defs, nil
}

// Check runs one plugin definition.
type Check struct {
	def    Definition
	env    checker.Env
	threat *regexp.Regexp
	info   *regexp.Regexp
}

// New validates def and binds it to env.
func New(env checker.Env, def Definition) (*Check, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	c := &Check{def: def, env: env}
	if def.ThreatPattern != "" {
		c.threat = regexp.MustCompile(def.ThreatPattern)
	}
	if def.InfoPattern != "" {
		c.info = regexp.MustCompile(def.InfoPattern)
	}
	return c, nil
}

// LoadChecks loads dir and builds a Check per valid definition.
func LoadChecks(env checker.Env, dir string) ([]checker.Check, error) {
	defs, err := Load(env.Filesystem(), dir, env.Log)
	if err != nil {
		return nil, err
	}

	checks := make([]checker.Check, 0, len(defs))
	for _, def := range defs {
		chk, err := New(env, def)
		if err != nil {
			continue
		}
		checks = append(checks, chk)
	}
	return checks, nil
}

func (c *Check) Name() string { return c.def.Name }

// Description returns the human readable summary from the definition.
func (c *Check) Description() string {
	if c.def.Description == "" {
		return "Plugin check " + c.def.Name
	}
	return c.def.Description
}

func (c *Check) Run(ctx context.Context, verbose bool) checker.Result {
	var res checker.Result
	c.env.Narrate(verbose, "running plugin", "plugin", c.def.Name, "command", c.def.Command[0])

	out := c.env.RunWithTimeout(ctx, c.def.Timeout(), c.def.Command...)
	switch {
	case out.NotFound():
		res.Infof("Plugin %s: %s not found.", c.def.Name, filepath.Base(c.def.Command[0]))
		return res
	case out.TimedOut():
		res.Infof("Plugin %s timed out; no result collected.", c.def.Name)
		return res
	}

	infoLines := 0
	for _, line := range strings.Split(out.Combined(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case c.threat != nil && c.threat.MatchString(line):
			res.AddThreat(fmt.Sprintf("%s: %s", c.def.Name, redact.String(line)))
		case c.info != nil && c.info.MatchString(line):
			res.AddInfo(fmt.Sprintf("%s: %s", c.def.Name, redact.String(line)))
			infoLines++
		}
	}

	if infoLines == 0 {
		res.Infof("Plugin %s finished with exit status %d and %d threat line(s).", c.def.Name, out.ExitCode, len(res.Threats))
	}

	return res
}
