package version

import (
	"fmt"
	"os"
	"regexp"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/spf13/afero"
)

// DefaultLockFile is looked up in the working directory when no path is configured.
const DefaultLockFile = "terraform.lock.hcl"

var lockVersionPattern = regexp.MustCompile(`version\s*=\s*"([0-9]+\.[0-9]+\.[0-9]+)"`)

// ReadLockFile returns the first `version = "X.Y.Z"` pin in the file at path.
// A missing file or a file without a pin yields core.ErrNoVersionSpecified.
func ReadLockFile(fs afero.Fs, path string) (string, error) {
	if path == "" {
		path = DefaultLockFile
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: lock file %s not found", core.ErrNoVersionSpecified, path)
		}
		return "", fmt.Errorf("%w: read lock file %s: %v", core.ErrNoVersionSpecified, path, err)
	}

	return ParseLockFile(string(data), path)
}

// ParseLockFile extracts the version pin from lock file content.
func ParseLockFile(content, name string) (string, error) {
	m := lockVersionPattern.FindStringSubmatch(content)
	if m == nil {
		return "", fmt.Errorf("%w: no version pin in %s", core.ErrNoVersionSpecified, name)
	}
	return m[1], nil
}
