// Package security guards the filesystem locations macsecscan writes to.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	// ErrPathEscape indicates the resolved path would escape the trusted root directory.
	ErrPathEscape = errors.New("path escapes base directory")
	// ErrEmptyBase indicates no base directory was given.
	ErrEmptyBase = errors.New("base directory is required")
)

// ResolveWithin joins elems under base and returns the absolute result. The
// joined elements must be a local path: non-empty, relative, and never
// climbing above base.
func ResolveWithin(base string, elems ...string) (string, error) {
	if base == "" {
		return "", ErrEmptyBase
	}

	rel := filepath.Join(elems...)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, rel)
	}

	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolve base path: %w", err)
	}

	return filepath.Join(absBase, rel), nil
}
