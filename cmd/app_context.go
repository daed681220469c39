package cmd

import (
	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/khanhnv2901/macsecscan/internal/executor"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// AppContext is everything a command needs, resolved once in PersistentPreRunE.
type AppContext struct {
	Logger   *zap.SugaredLogger
	Config   *CLIConfig
	DataDir  string
	Home     string
	FS       afero.Fs
	Exec     executor.Executor
	Registry *checker.Registry
}

// Env is the dependency bundle handed to every check.
func (a *AppContext) Env() checker.Env {
	return checker.Env{
		Exec:    a.Exec,
		FS:      a.FS,
		Log:     a.Logger,
		Home:    a.Home,
		Timeout: commandTimeout(a.Config),
	}
}

var globalAppContext *AppContext

func storeAppContext(_ *cobra.Command, appCtx *AppContext) {
	globalAppContext = appCtx
}

func getAppContext(_ *cobra.Command) *AppContext {
	return globalAppContext
}
