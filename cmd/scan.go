package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/khanhnv2901/macsecscan/internal/report"
	"github.com/spf13/cobra"
)

var scanAllCmd = &cobra.Command{
	Use:   "scan-all",
	Short: "Run the default checks (and opt-in checks with --full)",
	Long: `Run every default check in order and write the reports.

Default checks: brew, npm, pip, mac-updates, filevault, useraudit, malware.
With --full the opt-in checks follow: netports, browserext, persistence,
rootkit and any YAML plugins found in the data directory.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		appCtx := getAppContext(cmd)
		full, _ := cmd.Flags().GetBool("full")
		return runScan(cmd, appCtx, "scan-all", appCtx.Registry.Select(full))
	},
}

func init() {
	scanAllCmd.Flags().Bool("full", false, "include opt-in checks")
	addScanFlags(scanAllCmd)
}

// addScanFlags adds the --verbose/--quiet pair every scan command shares.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("verbose", true, "narrate progress to the terminal")
	cmd.Flags().BoolP("quiet", "q", false, "only print errors")
}

// scanVerbosity resolves --verbose/--quiet; commands without them are quiet.
func scanVerbosity(cmd *cobra.Command) bool {
	if cmd.Flags().Lookup("quiet") == nil {
		return false
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return verbose && !quiet
}

func validateScanFlags(cmd *cobra.Command) error {
	verbose := cmd.Flags().Lookup("verbose")
	quiet := cmd.Flags().Lookup("quiet")
	if verbose != nil && quiet != nil && verbose.Changed && quiet.Changed {
		return usageErrorf("--verbose and --quiet cannot be used together")
	}
	return nil
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("%s takes no arguments, got %q", cmd.CommandPath(), args)
	}
	return nil
}

// runScan is the side effect of every scan command: ensure the reports
// directory, run the checks, persist and print where the reports went.
func runScan(cmd *cobra.Command, appCtx *AppContext, name string, selected []checker.Check) error {
	if err := validateScanFlags(cmd); err != nil {
		return err
	}
	verbose := scanVerbosity(cmd)
	out := cmd.OutOrStdout()
	cfg := appCtx.Config

	if err := report.EnsureDir(appCtx.FS, cfg.ReportsDir); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	if verbose {
		fmt.Fprintln(out, colorInfo("Starting macsecscan..."))
	}

	runner := &checker.Runner{
		Concurrency: cfg.Concurrency,
		RateLimit:   cfg.RateLimit,
	}

	var progress *progressPrinter
	if cfg.ProgressEnabled && verbose {
		progress = newProgressPrinter(out, len(selected), name)
		runner.Observer = func(_ string, res checker.Result, d time.Duration) {
			progress.Increment(!res.HasThreats(), d.Seconds())
		}
		progress.Start()
	}

	run := checker.NewScanRun(time.Now())
	run.Result = runner.Run(cmd.Context(), selected, verbose)
	duration := time.Since(run.Timestamp)

	if progress != nil {
		progress.Stop()
	}

	writer := &report.Writer{Dir: cfg.ReportsDir, FS: appCtx.FS}
	infoPath, threatPath, err := writer.Persist(run.Result.Info, run.Result.Threats, run.Timestamp)
	if err != nil {
		return err
	}

	if cfg.TelemetryEnabled {
		if err := recordTelemetry(appCtx, name, len(selected), run.Result, duration); err != nil {
			appCtx.Logger.Warnw("failed to record telemetry", "error", err)
		}
	}

	if verbose {
		printScanSummary(out, report.Artifacts(infoPath, threatPath), duration)
	}

	return nil
}

func printScanSummary(out io.Writer, artifacts []report.Artifact, duration time.Duration) {
	threats := false
	for _, a := range artifacts {
		switch a.Kind {
		case report.KindInformational:
			fmt.Fprintln(out, colorSuccess("Informational report: "+a.Path))
		case report.KindSecurityConcerns:
			threats = true
			fmt.Fprintln(out, colorError("Security concerns report: "+a.Path))
		}
	}
	if !threats {
		fmt.Fprintln(out, colorSuccess("No security threats found. Security concerns file was not created."))
	}
	fmt.Fprintln(out, colorInfo(fmt.Sprintf("Scan complete in %.1fs", duration.Seconds())))
}
