package checks

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/khanhnv2901/macsecscan/internal/executor"
	"github.com/khanhnv2901/macsecscan/internal/redact"
	"github.com/spf13/afero"
)

// DefaultScanTimeout bounds a single ClamAV or YARA pass over a directory.
const DefaultScanTimeout = 10 * time.Minute

// MalwareMode selects what the malware check does.
type MalwareMode int

const (
	// MalwareAvailability only reports whether ClamAV and YARA are installed.
	MalwareAvailability MalwareMode = iota
	// MalwareScan runs ClamAV over ScanPath, then YARA if RulesDir is set.
	MalwareScan
	// YARAOnly runs the YARA rules in RulesDir over ScanPath.
	YARAOnly
)

// Malware wraps ClamAV and YARA. Detections are threats; every other outcome
// is informational.
type Malware struct {
	Env         checker.Env
	Mode        MalwareMode
	ScanPath    string
	RulesDir    string
	ScanTimeout time.Duration
}

// NewMalware returns the availability-only variant used in the default set.
func NewMalware(env checker.Env) *Malware {
	return &Malware{Env: env, Mode: MalwareAvailability}
}

// NewMalwareScan scans path with ClamAV and, if rulesDir is set, YARA.
// An empty path falls back to the availability check.
func NewMalwareScan(env checker.Env, path, rulesDir string) *Malware {
	mode := MalwareScan
	if path == "" {
		mode = MalwareAvailability
	}
	return &Malware{Env: env, Mode: mode, ScanPath: path, RulesDir: rulesDir, ScanTimeout: DefaultScanTimeout}
}

// NewYARAScan scans path with the rules found in rulesDir.
func NewYARAScan(env checker.Env, path, rulesDir string) *Malware {
	return &Malware{Env: env, Mode: YARAOnly, ScanPath: path, RulesDir: rulesDir, ScanTimeout: DefaultScanTimeout}
}

func (c *Malware) Name() string {
	if c.Mode == YARAOnly {
		return "yara"
	}
	return "malware"
}

func (c *Malware) Run(ctx context.Context, verbose bool) checker.Result {
	var res checker.Result

	switch c.Mode {
	case MalwareScan:
		c.clamScan(ctx, verbose, &res)
		if c.RulesDir != "" {
			c.yaraScan(ctx, verbose, &res)
		}
	case YARAOnly:
		c.yaraScan(ctx, verbose, &res)
	default:
		c.availability(ctx, verbose, &res)
	}

	return res
}

func (c *Malware) availability(ctx context.Context, verbose bool, res *checker.Result) {
	c.Env.Narrate(verbose, "checking ClamAV and YARA availability")

	clam := c.Env.Run(ctx, "clamscan", "--version")
	switch {
	case clam.NotFound():
		res.AddInfo("ClamAV not found. Install with `brew install clamav` to enable malware scanning.")
	case clam.TimedOut():
		res.AddInfo(timedOut("ClamAV version"))
	case clam.OK():
		res.AddInfo("ClamAV available. Run `macsecscan malware-scan --path <dir>` for an on-demand scan.")
	default:
		res.AddInfo("Unable to run ClamAV.")
	}

	yara := c.Env.Run(ctx, "yara", "--version")
	switch {
	case yara.NotFound():
		res.AddInfo("YARA not found. Install with `brew install yara` to enable rule-based scanning.")
	case yara.TimedOut():
		res.AddInfo(timedOut("YARA version"))
	case yara.OK():
		res.AddInfo("YARA available. Run `macsecscan yara-scan --rules <dir> --path <dir>` to scan with custom rules.")
	default:
		res.AddInfo("Unable to run YARA.")
	}
}

func (c *Malware) clamScan(ctx context.Context, verbose bool, res *checker.Result) {
	c.Env.Narrate(verbose, "running ClamAV scan", "path", c.ScanPath)

	out := c.Env.RunWithTimeout(ctx, c.timeout(), "clamscan", "-r", "-i", "--no-summary", c.ScanPath)
	switch {
	case out.NotFound():
		res.AddInfo("ClamAV not found. Install with `brew install clamav` to enable malware scanning.")
		return
	case out.TimedOut():
		res.AddInfo(timedOut("ClamAV scan"))
		return
	case out.OK():
		res.Infof("ClamAV: no infected files found in %s.", redact.String(c.ScanPath))
		return
	case out.ExitCode != 1:
		res.AddInfo("Unable to run ClamAV scan.")
		return
	}

	// Exit status 1 means at least one detection.
	var found []string
	for _, line := range nonEmptyLines(out.Stdout) {
		if strings.HasSuffix(line, "FOUND") {
			found = append(found, line)
		}
	}
	for _, line := range redact.Lines(found) {
		res.AddThreat("ClamAV detection: " + line + ". Quarantine or remove the file.")
	}
	if len(found) == 0 {
		res.AddInfo("ClamAV reported infections but no detections could be parsed.")
	}
}

func (c *Malware) yaraScan(ctx context.Context, verbose bool, res *checker.Result) {
	rules, ok := c.ruleFiles(res)
	if !ok {
		return
	}

	matches := 0
	for _, rule := range rules {
		c.Env.Narrate(verbose, "running YARA rules", "rules", filepath.Base(rule))

		out := c.Env.RunWithTimeout(ctx, c.timeout(), "yara", "-r", rule, c.ScanPath)
		switch {
		case out.NotFound():
			res.AddInfo("YARA not found. Install with `brew install yara` to enable rule-based scanning.")
			return
		case out.TimedOut():
			res.AddInfo(timedOut("YARA " + filepath.Base(rule)))
			continue
		case !out.OK():
			res.Infof("Unable to run YARA with rules %s.", filepath.Base(rule))
			continue
		}

		matches += yaraMatches(out, res)
	}

	if matches == 0 {
		res.Infof("YARA: no rule matches in %s.", redact.String(c.ScanPath))
	}
}

// yaraMatches records each "<rule> <file>" line as a threat.
func yaraMatches(out executor.Result, res *checker.Result) int {
	count := 0
	for _, line := range nonEmptyLines(out.Stdout) {
		rule, target, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		res.Threatf("YARA rule %s matched %s. Investigate and quarantine the file.", rule, redact.String(target))
		count++
	}
	return count
}

// ruleFiles lists .yar and .yara files in RulesDir in name order.
func (c *Malware) ruleFiles(res *checker.Result) ([]string, bool) {
	if c.RulesDir == "" {
		res.AddInfo("No YARA rules directory configured. Pass --rules or set malware.rules_dir.")
		return nil, false
	}

	entries, err := afero.ReadDir(c.Env.Filesystem(), c.RulesDir)
	if err != nil {
		res.AddInfo("YARA rules directory not found: " + redact.String(c.RulesDir))
		return nil, false
	}

	var rules []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yar", ".yara":
			rules = append(rules, filepath.Join(c.RulesDir, e.Name()))
		}
	}

	if len(rules) == 0 {
		res.AddInfo("No YARA rule files (.yar, .yara) found in " + redact.String(c.RulesDir) + ".")
		return nil, false
	}
	return rules, true
}

func (c *Malware) timeout() time.Duration {
	if c.ScanTimeout > 0 {
		return c.ScanTimeout
	}
	return DefaultScanTimeout
}
