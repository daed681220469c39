package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show configuration, data locations and registered checks",
	Long: `Display macsecscan configuration information including:
  - Reports and data directory locations
  - Configuration file in use
  - Default and opt-in checks, including loaded plugins
  - Platform information`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		cfg := appCtx.Config

		reportsExists, _ := afero.DirExists(appCtx.FS, cfg.ReportsDir)
		plugins := pluginsDir(appCtx.DataDir)
		pluginsExists, _ := afero.DirExists(appCtx.FS, plugins)

		configFile := viper.ConfigFileUsed()
		configExists := false
		if configFile != "" {
			configExists, _ = afero.Exists(appCtx.FS, configFile)
		} else {
			configFile = "~/.macsecscan.yaml"
		}

		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "macsecscan System Information")
		fmt.Fprintln(out, "=============================")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Platform:          %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "Command timeout:   %ds\n", cfg.TimeoutSecs)
		fmt.Fprintf(out, "Concurrency:       %d\n", cfg.Concurrency)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Locations:")
		fmt.Fprintf(out, "  Reports Directory:  %s %s\n", cfg.ReportsDir, formatExists(reportsExists, "not created yet"))
		fmt.Fprintf(out, "  Data Directory:     %s\n", appCtx.DataDir)
		fmt.Fprintf(out, "  Plugins Directory:  %s %s\n", plugins, formatExists(pluginsExists, "no plugins"))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Configuration File:   %s %s\n", configFile, formatExists(configExists, "using defaults"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Checks:")
		printCheckSet(out, appCtx.Registry, checker.SetDefault)
		printCheckSet(out, appCtx.Registry, checker.SetOptIn)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To override the reports directory, create ~/.macsecscan.yaml with:")
		fmt.Fprintln(out, "  reports_dir: /custom/path/to/reports")

		return nil
	},
}

func printCheckSet(out io.Writer, reg *checker.Registry, set checker.Set) {
	var list []checker.Check
	if set == checker.SetOptIn {
		list = reg.OptIn()
	} else {
		list = reg.Default()
	}

	names := make([]string, 0, len(list))
	for _, chk := range list {
		names = append(names, chk.Name())
	}
	fmt.Fprintf(out, "  %s: %s\n", formatCheckSet(set.String()), strings.Join(names, ", "))
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
