package checks

import (
	"errors"

	"github.com/khanhnv2901/macsecscan/internal/checker"
)

// Options carries the configuration a few checks need.
type Options struct {
	AdminAllowlist []string
}

// NewRegistry builds the canonical default and opt-in sets. Extra checks,
// such as YAML plugins, are appended to the opt-in set after the built-ins;
// ones that cannot be registered are skipped and reported in the error.
func NewRegistry(env checker.Env, opts Options, extra ...checker.Check) (*checker.Registry, error) {
	reg := checker.NewRegistry()

	defaults := []checker.Check{
		NewBrew(env),
		NewNpm(env),
		NewPip(env),
		NewMacUpdates(env),
		NewFileVault(env),
		NewUserAudit(env, opts.AdminAllowlist),
		NewMalware(env),
	}
	for _, chk := range defaults {
		reg.MustRegister(checker.SetDefault, chk)
	}

	optIn := []checker.Check{
		NewNetPorts(env),
		NewBrowserExt(env),
		NewPersistence(env),
		NewRootkit(env),
	}
	for _, chk := range optIn {
		reg.MustRegister(checker.SetOptIn, chk)
	}

	var errs []error
	for _, chk := range extra {
		if err := reg.Register(checker.SetOptIn, chk); err != nil {
			errs = append(errs, err)
		}
	}

	return reg, errors.Join(errs...)
}
