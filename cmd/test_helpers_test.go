package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/executor"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// cliEnv is an isolated CLI run: scripted tools, temp data/home/reports dirs.
type cliEnv struct {
	DataDir    string
	ReportsDir string
	Home       string
}

// setupCLI resets global command state and scripts tool output by argv[0].
// Tools missing from script behave as not installed.
func setupCLI(t *testing.T, script map[string]executor.Result) *cliEnv {
	t.Helper()
	disableColor(t)

	env := &cliEnv{
		DataDir: t.TempDir(),
		Home:    t.TempDir(),
	}
	env.ReportsDir = filepath.Join(t.TempDir(), "reports")

	t.Setenv(dataDirEnvVar, env.DataDir)
	t.Setenv("HOME", env.Home)

	viper.Reset()
	resetFlags(rootCmd)
	cfgFile = ""

	originalExec := newExecutor
	newExecutor = func(*zap.SugaredLogger, time.Duration) executor.Executor {
		return executor.Func(func(_ context.Context, argv []string, _ time.Duration) executor.Result {
			if res, ok := script[argv[0]]; ok {
				res.Command = argv
				return res
			}
			return executor.Result{Command: argv, ExitCode: executor.ExitNotFound, Stderr: executor.MsgNotFoundPrefix + argv[0]}
		})
	}

	t.Cleanup(func() {
		newExecutor = originalExec
		globalAppContext = nil
		viper.Reset()
		resetFlags(rootCmd)
		cfgFile = ""
	})

	return env
}

// resetFlags restores every flag in the tree to its default and clears Changed.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func globReports(t *testing.T, dir, suffix string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return matches
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
