// Package fsio wraps the filesystem writes performed while rendering the
// artifact tree. Failures surface the failing path; files already written
// are not rolled back.
package fsio

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes contents to path, creating parent directories as needed.
func WriteFile(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("make dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteExecutable writes contents to path and marks it executable.
func WriteExecutable(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("make dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, contents, 0o755); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
