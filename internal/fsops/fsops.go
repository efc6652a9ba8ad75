package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// CreateTempFile creates an empty temporary file inside dir. Keeping temp
// files next to their final destination avoids cross-device renames and
// lets cleanup stay within a directory tvm owns.
func CreateTempFile(fs afero.Fs, dir, pattern string) (afero.File, error) {
	if err := EnsureDir(fs, dir, 0755); err != nil {
		return nil, err
	}
	f, err := afero.TempFile(fs, dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return f, nil
}

// CheckWritable checks if a directory is writable
func CheckWritable(fs afero.Fs, dir string) error {
	testFile := filepath.Join(dir, ".tvm_write_test")
	f, err := fs.Create(testFile)
	if err != nil {
		return fmt.Errorf("path not writable: %w", err)
	}
	f.Close()
	fs.Remove(testFile)
	return nil
}

// EnsureDir ensures a directory exists with the given permissions
func EnsureDir(fs afero.Fs, path string, perm os.FileMode) error {
	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	return nil
}

// Exists checks if a path exists
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func IsDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsRegularFile checks if a path is a regular file (symlinks are followed)
func IsRegularFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// RemoveIfExists removes a single file or link, treating "not found" as success
func RemoveIfExists(afs afero.Fs, path string) error {
	if err := afs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
