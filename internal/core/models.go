package core

import (
	"context"
	"errors"
	"io/fs"
)

// LatestVersion is the sentinel accepted in place of a concrete version.
const LatestVersion = "latest"

// BinaryName is the name of the managed executable.
const BinaryName = "terraform"

// VersionsDirName is the cache directory created under the cache root.
const VersionsDirName = ".tfVersions"

// InstallReport describes the outcome of an install/activation.
type InstallReport struct {
	Version        string `json:"version"`
	OS             string `json:"os"`
	Arch           string `json:"arch"`
	ExecutablePath string `json:"executable_path"`
	PointerPath    string `json:"pointer_path"`
	CacheHit       bool   `json:"cache_hit"`
	VersionLine    string `json:"version_line,omitempty"`
	Verified       bool   `json:"verified"`
}

// Exit codes
const (
	ExitSuccess             = 0
	ExitGeneral             = 1
	ExitInvalidArgs         = 2
	ExitInstallFailed       = 3
	ExitUnsupportedPlatform = 4
	ExitPermission          = 6
	ExitNetwork             = 7
	ExitInterrupted         = 130
)

// ExitCodeFor maps an error returned by a command to a process exit code.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, ErrUnsupportedArchitecture), errors.Is(err, ErrUnsupportedOS):
		return ExitUnsupportedPlatform
	case errors.Is(err, ErrInvalidVersion), errors.Is(err, ErrNoVersionSpecified):
		return ExitInvalidArgs
	case errors.Is(err, ErrNoVersionsAvailable), errors.Is(err, ErrDownloadFailed):
		return ExitNetwork
	case errors.Is(err, ErrVersionNotAvailable):
		return ExitInstallFailed
	case errors.Is(err, fs.ErrPermission):
		return ExitPermission
	default:
		return ExitGeneral
	}
}
