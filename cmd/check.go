package cmd

import (
	"fmt"

	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/khanhnv2901/macsecscan/internal/checks"
	"github.com/khanhnv2901/macsecscan/internal/checks/plugin"
	sharedErrors "github.com/khanhnv2901/macsecscan/internal/shared/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// singleCheck is a command that runs one registered check on its own.
type singleCheck struct {
	Use   string
	Check string
	Short string
}

var singleChecks = []singleCheck{
	{Use: "brew-check", Check: "brew", Short: "Check Homebrew for outdated packages"},
	{Use: "npm-check", Check: "npm", Short: "Check global npm packages for updates"},
	{Use: "pip-check", Check: "pip", Short: "Check pip for outdated packages"},
	{Use: "mac-updates", Check: "mac-updates", Short: "Check for pending macOS software updates"},
	{Use: "filevault-check", Check: "filevault", Short: "Check FileVault disk encryption status"},
	{Use: "useraudit-check", Check: "useraudit", Short: "Audit members of the admin group"},
	{Use: "netports-check", Check: "netports", Short: "Count local listening network ports"},
	{Use: "browserext-check", Check: "browserext", Short: "Count installed browser extensions"},
	{Use: "persistence-check", Check: "persistence", Short: "Count launch agents and daemons"},
	{Use: "rootkit-check", Check: "rootkit", Short: "Rootkit advisory"},
}

func newSingleCheckCmd(sc singleCheck) *cobra.Command {
	cmd := &cobra.Command{
		Use:   sc.Use,
		Short: sc.Short,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appCtx := getAppContext(cmd)
			chk, err := appCtx.Registry.Lookup(sc.Check)
			if err != nil {
				return err
			}
			return runScan(cmd, appCtx, sc.Use, []checker.Check{chk})
		},
	}
	addScanFlags(cmd)
	return cmd
}

var malwareScanCmd = &cobra.Command{
	Use:   "malware-scan",
	Short: "Scan a directory with ClamAV and optional YARA rules",
	Long: `Scan --path recursively with ClamAV, then with the YARA rules in --rules
(or malware.rules_dir from the config file) when set. Without --path only
tool availability is reported.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		appCtx := getAppContext(cmd)
		path, _ := cmd.Flags().GetString("path")
		rules, _ := cmd.Flags().GetString("rules")

		if err := requireDir(appCtx.FS, "--path", path); err != nil {
			return err
		}
		if err := requireDir(appCtx.FS, "--rules", rules); err != nil {
			return err
		}
		if rules == "" && path != "" {
			rules = appCtx.Config.RulesDir
		}

		chk := checks.NewMalwareScan(appCtx.Env(), path, rules)
		return runScan(cmd, appCtx, "malware-scan", []checker.Check{chk})
	},
}

var yaraScanCmd = &cobra.Command{
	Use:   "yara-scan",
	Short: "Scan a directory with YARA rules only",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		appCtx := getAppContext(cmd)
		path, _ := cmd.Flags().GetString("path")
		rules, _ := cmd.Flags().GetString("rules")

		if rules == "" {
			return &UsageError{Msg: "--rules", Err: sharedErrors.ErrMissingRequired}
		}
		if path == "" {
			return &UsageError{Msg: "--path", Err: sharedErrors.ErrMissingRequired}
		}
		if err := requireDir(appCtx.FS, "--rules", rules); err != nil {
			return err
		}
		if err := requireDir(appCtx.FS, "--path", path); err != nil {
			return err
		}

		chk := checks.NewYARAScan(appCtx.Env(), path, rules)
		return runScan(cmd, appCtx, "yara-scan", []checker.Check{chk})
	},
}

var pluginCmd = &cobra.Command{
	Use:   "plugin <name>",
	Short: "Run a YAML-defined plugin check",
	Long: `Run one plugin check by name. Plugins are YAML files in the plugins
directory under the data directory (see "macsecscan info").`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usageErrorf("%s requires exactly one plugin name", cmd.CommandPath())
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		chk, err := appCtx.Registry.Lookup(args[0])
		if err != nil {
			return &UsageError{Msg: "plugin " + args[0], Err: err}
		}
		if _, ok := chk.(*plugin.Check); !ok {
			return &UsageError{Msg: fmt.Sprintf("%s is a built-in check, not a plugin", args[0]), Err: sharedErrors.ErrUnknownCheck}
		}
		return runScan(cmd, appCtx, "plugin "+args[0], []checker.Check{chk})
	},
}

// requireDir rejects a non-empty path that is not an existing directory.
func requireDir(fs afero.Fs, flag, path string) error {
	if path == "" {
		return nil
	}
	ok, err := afero.IsDir(fs, path)
	if err != nil || !ok {
		return &UsageError{Msg: fmt.Sprintf("%s %s", flag, path), Err: sharedErrors.ErrNotDirectory}
	}
	return nil
}

func init() {
	for _, sc := range singleChecks {
		rootCmd.AddCommand(newSingleCheckCmd(sc))
	}

	malwareScanCmd.Flags().String("path", "", "directory to scan")
	malwareScanCmd.Flags().String("rules", "", "YARA rules directory")
	addScanFlags(malwareScanCmd)

	yaraScanCmd.Flags().String("path", "", "directory to scan (required)")
	yaraScanCmd.Flags().String("rules", "", "YARA rules directory (required)")
	addScanFlags(yaraScanCmd)

	addScanFlags(pluginCmd)

	rootCmd.AddCommand(malwareScanCmd)
	rootCmd.AddCommand(yaraScanCmd)
	rootCmd.AddCommand(pluginCmd)
}
