// Package security holds path guards used when unpacking release archives
// and when accepting user-supplied paths from flags or config.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateExtractPath prevents directory traversal (Zip Slip): the archive
// entry name joined to targetDir must stay inside targetDir.
func ValidateExtractPath(targetDir, entryName string) error {
	if err := ValidatePath(entryName); err != nil {
		return err
	}

	// Zip entries always use forward slashes, whatever the host.
	cleanPath := filepath.Clean(filepath.FromSlash(entryName))

	if filepath.IsAbs(cleanPath) || strings.HasPrefix(entryName, "/") {
		return fmt.Errorf("absolute path not allowed: %s", entryName)
	}

	for _, part := range strings.Split(cleanPath, string(filepath.Separator)) {
		if part == ".." {
			return fmt.Errorf("path contains ..: %s", entryName)
		}
	}

	cleanDest, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("failed to resolve target directory: %w", err)
	}

	cleanTarget, err := filepath.Abs(filepath.Join(targetDir, cleanPath))
	if err != nil {
		return fmt.Errorf("failed to resolve destination path: %w", err)
	}

	if !strings.HasPrefix(cleanTarget, cleanDest+string(filepath.Separator)) &&
		cleanTarget != cleanDest {
		return fmt.Errorf("path escapes destination directory: %s", entryName)
	}

	return nil
}

// ValidatePath rejects strings that cannot be a sane filesystem path.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains null bytes: %q", path)
	}

	if len(path) > 4096 {
		return fmt.Errorf("path too long: %d characters", len(path))
	}

	return nil
}
