package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/khanhnv2901/macsecscan/internal/checks"
	"github.com/khanhnv2901/macsecscan/internal/checks/plugin"
	"github.com/khanhnv2901/macsecscan/internal/executor"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var cfgFile string
var logger *zap.SugaredLogger

// newExecutor builds the command executor; tests swap it for a scripted one.
var newExecutor = func(log *zap.SugaredLogger, timeout time.Duration) executor.Executor {
	return executor.New(executor.WithLogger(log), executor.WithDefaultTimeout(timeout))
}

// newFS returns the filesystem used for checks, reports and telemetry.
var newFS = afero.NewOsFs

var rootCmd = &cobra.Command{
	Use:   "macsecscan",
	Short: "Read-only macOS security posture scanner",
	Long: `macsecscan inspects the local host with built-in diagnostic tools and
writes a timestamped informational report, plus a security concerns report
when anything actionable is found. It never changes the system.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

func initApp(cmd *cobra.Command, _ []string) error {
	// init config
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".macsecscan")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		return &UsageError{Msg: "unable to read config " + cfgFile, Err: err}
	}

	applyConfigDefaults(rootCmd.PersistentFlags())
	if err := validateConfig(cliConfig); err != nil {
		return err
	}

	// Make reportsDir absolute for clarity in output.
	if abs, err := filepath.Abs(cliConfig.ReportsDir); err == nil {
		cliConfig.ReportsDir = abs
	}

	// init logger
	l, err := newLogger(scanVerbosity(cmd), cliConfig.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = l

	dataDir, err := getDataDir()
	if err != nil {
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warnw("could not determine home directory", "error", err)
	}

	appCtx := &AppContext{
		Logger:  logger,
		Config:  cliConfig,
		DataDir: dataDir,
		Home:    home,
		FS:      newFS(),
	}
	appCtx.Exec = newExecutor(logger, commandTimeout(cliConfig))

	reg, err := buildRegistry(appCtx)
	if err != nil {
		// Clashing plugins are skipped; the built-in sets are intact.
		logger.Warnw("some plugins were not registered", "error", err)
	}
	appCtx.Registry = reg

	storeAppContext(cmd, appCtx)

	logger.Debugw("configuration resolved",
		"config_file", viper.ConfigFileUsed(),
		"reports_dir", cliConfig.ReportsDir,
		"data_dir", dataDir,
		"command_timeout_secs", cliConfig.TimeoutSecs,
		"concurrency", cliConfig.Concurrency,
	)

	return nil
}

// buildRegistry registers the built-in checks followed by YAML plugins.
func buildRegistry(appCtx *AppContext) (*checker.Registry, error) {
	env := appCtx.Env()

	plugins, err := plugin.LoadChecks(env, pluginsDir(appCtx.DataDir))
	if err != nil {
		appCtx.Logger.Warnw("unable to load plugins", "error", err)
	}

	return checks.NewRegistry(env, checks.Options{AdminAllowlist: appCtx.Config.AdminAllowlist}, plugins...)
}

// newLogger writes to stderr: warnings by default, check narration when
// verbose, executor detail when debug is set.
func newLogger(verbose, debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.Sampling = nil

	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.InfoLevel
	}
	if debug {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func commandTimeout(cfg *CLIConfig) time.Duration {
	if cfg == nil || cfg.TimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(cfg.TimeoutSecs) * time.Second
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if logger != nil {
		_ = logger.Sync()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, colorError("Error: "+err.Error()))
		os.Exit(exitCode(err))
	}
}

func init() {
	// config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.macsecscan.yaml)")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cliConfig.ReportsDir, "reports-dir", cliConfig.ReportsDir, "directory reports are written to")
	flags.IntVar(&cliConfig.TimeoutSecs, "command-timeout", cliConfig.TimeoutSecs, "timeout in seconds for each diagnostic command")
	flags.IntVar(&cliConfig.Concurrency, "concurrency", cliConfig.Concurrency, "maximum checks running at once")
	flags.IntVar(&cliConfig.RateLimit, "rate-limit", cliConfig.RateLimit, "maximum check starts per second (0 = unlimited)")
	flags.BoolVar(&cliConfig.TelemetryEnabled, "telemetry", cliConfig.TelemetryEnabled, "append a run summary to telemetry.jsonl in the data directory")
	flags.BoolVar(&cliConfig.ProgressEnabled, "progress", cliConfig.ProgressEnabled, "show a live progress line while checks run")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	// add subcommands
	rootCmd.AddCommand(scanAllCmd)
	rootCmd.AddCommand(versionCmd)
}
