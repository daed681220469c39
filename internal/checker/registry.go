package checker

import (
	"fmt"
	"sort"

	sharedErrors "github.com/khanhnv2901/macsecscan/internal/shared/errors"
)

// Set identifies which canonical group a check belongs to.
type Set int

const (
	// SetDefault checks always run.
	SetDefault Set = iota
	// SetOptIn checks run only when explicitly requested.
	SetOptIn
)

func (s Set) String() string {
	if s == SetOptIn {
		return "opt-in"
	}
	return "default"
}

type entry struct {
	check Check
	set   Set
}

// Registry holds checks in declaration order, split into default and opt-in sets.
type Registry struct {
	entries []entry
	byName  map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register appends a check to the given set. Names must be unique.
func (r *Registry) Register(set Set, chk Check) error {
	if chk == nil || chk.Name() == "" {
		return sharedErrors.ErrEmptyCheckName
	}
	if _, exists := r.byName[chk.Name()]; exists {
		return fmt.Errorf("%w: %s", sharedErrors.ErrDuplicateCheck, chk.Name())
	}
	r.byName[chk.Name()] = len(r.entries)
	r.entries = append(r.entries, entry{check: chk, set: set})
	return nil
}

// MustRegister is Register for static wiring; it panics on a programming error.
func (r *Registry) MustRegister(set Set, chk Check) {
	if err := r.Register(set, chk); err != nil {
		panic(err)
	}
}

// Default returns the default set in declared order.
func (r *Registry) Default() []Check {
	return r.inSet(SetDefault)
}

// OptIn returns the opt-in set in declared order.
func (r *Registry) OptIn() []Check {
	return r.inSet(SetOptIn)
}

// Select returns the default set, followed by the opt-in set when full is true.
func (r *Registry) Select(full bool) []Check {
	checks := r.Default()
	if full {
		checks = append(checks, r.OptIn()...)
	}
	return checks
}

// Lookup finds a check by name.
func (r *Registry) Lookup(name string) (Check, error) {
	idx, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sharedErrors.ErrUnknownCheck, name)
	}
	return r.entries[idx].check, nil
}

// SetOf reports the set a registered check belongs to.
func (r *Registry) SetOf(name string) (Set, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return SetDefault, false
	}
	return r.entries[idx].set, true
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.check.Name())
	}
	sort.Strings(names)
	return names
}

func (r *Registry) inSet(set Set) []Check {
	out := make([]Check, 0, len(r.entries))
	for _, e := range r.entries {
		if e.set == set {
			out = append(out, e.check)
		}
	}
	return out
}
