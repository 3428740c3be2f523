// Package blobio saves and loads whole values as YAML documents.
//
// It is independent of flatstore: a blob is an opaque value written and
// read in one piece, with no per-key access.
package blobio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Load when the file does not exist.
var ErrNotFound = errors.New("blob not found")

// Save encodes v and writes it to path, creating parent directories.
func Save(path string, v any) error {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding blob: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating blob directory: %w", err)
	}

	tmp := path + ".tmp." + uuid.NewString()
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("writing blob: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best effort cleanup
		return fmt.Errorf("writing blob: %w", err)
	}
	return nil
}

// Load reads the blob at path into v, which must be a pointer.
func Load(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("reading blob: %w", err)
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding blob %s: %w", path, err)
	}
	return nil
}
