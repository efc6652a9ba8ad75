package helpers

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Mullenmaster/terraform-version-manager/internal/security"
	"github.com/spf13/afero"
)

// ExtractZip extracts a .zip archive with security checks. Entries whose
// names would escape destDir abort the extraction.
func ExtractZip(fs afero.Fs, archivePath, destDir string) error {
	file, err := fs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open zip: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat zip: %w", err)
	}

	r, err := zip.NewReader(file, info.Size())
	if err != nil {
		return fmt.Errorf("failed to read zip: %w", err)
	}

	if err := fs.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	for _, f := range r.File {
		// Security: Validate path
		if err := security.ValidateExtractPath(destDir, f.Name); err != nil {
			return fmt.Errorf("invalid path in zip: %w", err)
		}

		target := filepath.Join(destDir, filepath.FromSlash(f.Name))

		if f.FileInfo().IsDir() {
			if err := fs.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		// Symlinks and other special entries are not part of release archives
		if !f.Mode().IsRegular() {
			continue
		}

		if err := extractZipFile(fs, f, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
	}

	return nil
}

// extractZipFile writes into a sibling ".partial" file and renames it over
// target only once the entry has been copied and its checksum verified, so an
// aborted extraction never leaves a truncated file at target.
func extractZipFile(fs afero.Fs, f *zip.File, target string) error {
	if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}

	partial := target + ".partial"
	out, err := fs.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		fs.Remove(partial)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		fs.Remove(partial)
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := fs.Rename(partial, target); err != nil {
		fs.Remove(partial)
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
