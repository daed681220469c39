package cmd

import (
	"github.com/khanhnv2901/macsecscan/internal/shared/constants"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config keys, also reachable as MACSECSCAN_<KEY> environment variables.
const (
	keyReportsDir     = "reports_dir"
	keyCommandTimeout = "command_timeout_secs"
	keyConcurrency    = "concurrency"
	keyRateLimit      = "rate_limit"
	keyTelemetry      = "telemetry"
	keyProgress       = "progress"
	keyAdminAllowlist = "admin_allowlist"
	keyRulesDir       = "malware.rules_dir"
	keyDebug          = "debug"
)

const envPrefix = "MACSECSCAN"

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	ReportsDir       string
	TimeoutSecs      int
	Concurrency      int
	RateLimit        int
	TelemetryEnabled bool
	ProgressEnabled  bool
	Debug            bool
	AdminAllowlist   []string
	RulesDir         string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		ReportsDir:  constants.DefaultReportsDir,
		TimeoutSecs: int(constants.DefaultCommandTimeout.Seconds()),
		Concurrency: 1,
	}
}

// applyConfigDefaults merges config file and environment values into the
// runtime config when the user did not explicitly set the corresponding flag.
func applyConfigDefaults(flags *pflag.FlagSet) {
	if viper.IsSet(keyReportsDir) {
		applyStringDefault(flags, "reports-dir", viper.GetString(keyReportsDir), func(v string) {
			cliConfig.ReportsDir = v
		})
	}

	if viper.IsSet(keyCommandTimeout) {
		applyIntDefault(flags, "command-timeout", viper.GetInt(keyCommandTimeout), func(v int) {
			cliConfig.TimeoutSecs = v
		})
	}

	if viper.IsSet(keyConcurrency) {
		applyIntDefault(flags, "concurrency", viper.GetInt(keyConcurrency), func(v int) {
			cliConfig.Concurrency = v
		})
	}

	if viper.IsSet(keyRateLimit) {
		applyIntDefault(flags, "rate-limit", viper.GetInt(keyRateLimit), func(v int) {
			cliConfig.RateLimit = v
		})
	}

	if viper.IsSet(keyTelemetry) {
		applyBoolDefault(flags, "telemetry", viper.GetBool(keyTelemetry), func(v bool) {
			cliConfig.TelemetryEnabled = v
		})
	}

	if viper.IsSet(keyProgress) {
		applyBoolDefault(flags, "progress", viper.GetBool(keyProgress), func(v bool) {
			cliConfig.ProgressEnabled = v
		})
	}

	// Config-only keys are recomputed on every invocation.
	cliConfig.Debug = viper.GetBool(keyDebug)
	cliConfig.AdminAllowlist = viper.GetStringSlice(keyAdminAllowlist)
	cliConfig.RulesDir = viper.GetString(keyRulesDir)
}

// validateConfig rejects values no scan can run with.
func validateConfig(cfg *CLIConfig) error {
	if cfg.ReportsDir == "" {
		return usageErrorf("--reports-dir must not be empty")
	}
	if cfg.TimeoutSecs <= 0 {
		return usageErrorf("--command-timeout must be positive, got %d", cfg.TimeoutSecs)
	}
	if cfg.Concurrency < 1 {
		return usageErrorf("--concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	if cfg.RateLimit < 0 {
		return usageErrorf("--rate-limit must not be negative, got %d", cfg.RateLimit)
	}
	return nil
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyStringDefault(flags *pflag.FlagSet, name, value string, setter func(string)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}
