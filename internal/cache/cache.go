// Package cache keeps one extracted terraform executable per version under
// <root>/.tfVersions/<version>/. An entry counts as present only when its
// executable exists as a regular file; entries are never pruned.
package cache

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/Mullenmaster/terraform-version-manager/internal/fsops"
	"github.com/Mullenmaster/terraform-version-manager/internal/helpers"
	"github.com/Mullenmaster/terraform-version-manager/internal/platform"
	"github.com/Mullenmaster/terraform-version-manager/internal/version"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Fetcher downloads the release archive for a version and platform into w.
type Fetcher interface {
	Download(ctx context.Context, version string, key platform.Key, w io.Writer) error
}

// Cache manages the on-disk version cache.
type Cache struct {
	fs      afero.Fs
	root    string
	fetcher Fetcher
	log     *zerolog.Logger
}

// New creates a cache rooted at root. fetcher may be nil for read-only use
// (List, IsCached); EnsureInstalled then fails on a miss.
func New(fs afero.Fs, root string, fetcher Fetcher, log *zerolog.Logger) *Cache {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Cache{
		fs:      fs,
		root:    root,
		fetcher: fetcher,
		log:     log,
	}
}

// Root returns the cache root (the parent of .tfVersions).
func (c *Cache) Root() string {
	return c.root
}

// VersionsDir returns <root>/.tfVersions.
func (c *Cache) VersionsDir() string {
	return filepath.Join(c.root, core.VersionsDirName)
}

// EntryDir returns the directory holding a version's executable.
func (c *Cache) EntryDir(v string) string {
	return filepath.Join(c.VersionsDir(), v)
}

// ExecutableName returns terraform, or terraform.exe on windows.
func ExecutableName(key platform.Key) string {
	if key.IsWindows() {
		return core.BinaryName + ".exe"
	}
	return core.BinaryName
}

// ExecutablePath returns where the executable for v lives once cached.
func (c *Cache) ExecutablePath(v string, key platform.Key) string {
	return filepath.Join(c.EntryDir(v), ExecutableName(key))
}

// IsCached reports whether the executable for v is present.
func (c *Cache) IsCached(v string, key platform.Key) bool {
	return fsops.IsRegularFile(c.fs, c.ExecutablePath(v, key))
}

// EnsureInstalled returns the path of the cached executable for v, downloading
// and extracting the archive first on a miss. hit reports whether the network
// was skipped.
func (c *Cache) EnsureInstalled(ctx context.Context, v string, key platform.Key) (path string, hit bool, err error) {
	exe := c.ExecutablePath(v, key)
	if fsops.IsRegularFile(c.fs, exe) {
		c.log.Debug().Str("version", v).Str("path", exe).Msg("cache hit")
		return exe, true, nil
	}

	if c.fetcher == nil {
		return "", false, fmt.Errorf("%w: terraform %s is not cached and no fetcher is configured", core.ErrDownloadFailed, v)
	}

	entry := c.EntryDir(v)
	if err := fsops.EnsureDir(c.fs, entry, 0755); err != nil {
		return "", false, fmt.Errorf("create cache entry %s: %w", entry, err)
	}

	tmp, err := fsops.CreateTempFile(c.fs, c.VersionsDir(), fmt.Sprintf("terraform_%s_*.zip", v))
	if err != nil {
		return "", false, err
	}
	tmpPath := tmp.Name()
	defer func() {
		if rmErr := fsops.RemoveIfExists(c.fs, tmpPath); rmErr != nil {
			c.log.Warn().Err(rmErr).Str("path", tmpPath).Msg("failed to remove temporary archive")
		}
	}()

	c.log.Info().Str("version", v).Str("platform", key.String()).Msg("downloading terraform")

	if err := c.fetcher.Download(ctx, v, key, tmp); err != nil {
		tmp.Close()
		return "", false, err
	}
	if err := tmp.Close(); err != nil {
		return "", false, fmt.Errorf("close temporary archive: %w", err)
	}

	if err := helpers.ExtractZip(c.fs, tmpPath, entry); err != nil {
		return "", false, fmt.Errorf("extract terraform %s: %w", v, err)
	}

	if !fsops.IsRegularFile(c.fs, exe) {
		return "", false, fmt.Errorf("archive for terraform %s did not contain %s", v, ExecutableName(key))
	}

	if err := c.fs.Chmod(exe, 0755); err != nil {
		// a non-executable file must not count as a cache hit next time
		c.fs.Remove(exe)
		return "", false, fmt.Errorf("make %s executable: %w", exe, err)
	}

	c.log.Debug().Str("version", v).Str("path", exe).Msg("cached terraform")
	return exe, false, nil
}

// List returns cached versions, newest first. Directories without an
// executable (an interrupted download) and non-version names are skipped.
func (c *Cache) List() ([]string, error) {
	dir := c.VersionsDir()
	if !fsops.IsDir(c.fs, dir) {
		return nil, nil
	}

	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read cache directory %s: %w", dir, err)
	}

	var versions []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := version.Parse(e.Name()); err != nil {
			continue
		}
		entry := filepath.Join(dir, e.Name())
		if fsops.IsRegularFile(c.fs, filepath.Join(entry, core.BinaryName)) ||
			fsops.IsRegularFile(c.fs, filepath.Join(entry, core.BinaryName+".exe")) {
			versions = append(versions, e.Name())
		}
	}

	version.SortDescending(versions)
	return versions, nil
}
