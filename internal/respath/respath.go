// Package respath resolves where named stores live on disk.
//
// A store called "settings" under base directory /opt/app is kept in
// /opt/app/settings.tinydb. The base directory defaults to the directory
// holding the running executable and can be overridden by the caller.
package respath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the file extension of store files.
const Ext = ".tinydb"

// StorePath returns the backing file path for the store called name under base.
func StorePath(base, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(base, name+Ext), nil
}

// ValidateName checks that a store name is non-empty and is a single
// path element.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("store name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("store name %q must not contain a path separator", name)
	}
	return nil
}

// BaseDir returns override when it is set, otherwise ExecutableDir.
func BaseDir(override string) (string, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("resolving base directory %s: %w", override, err)
		}
		return abs, nil
	}
	return ExecutableDir()
}

// ExecutableDir returns the directory containing the running executable,
// with symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving executable path: %w", err)
	}
	return filepath.Dir(exe), nil
}
