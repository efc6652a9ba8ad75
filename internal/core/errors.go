package core

import "errors"

// Failure taxonomy. Callers wrap these with fmt.Errorf("...: %w") and classify
// them with errors.Is.
var (
	// ErrUnsupportedArchitecture is returned when the host CPU has no upstream build.
	ErrUnsupportedArchitecture = errors.New("unsupported architecture")
	// ErrUnsupportedOS is returned when the host OS has no upstream build.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// ErrInvalidVersion is returned for a version argument that is not X.Y.Z or "latest".
	ErrInvalidVersion = errors.New("invalid version")
	// ErrNoVersionSpecified is returned when neither an argument nor a lock file pins a version.
	ErrNoVersionSpecified = errors.New("no version specified")
	// ErrNoVersionsAvailable is returned when the release listing is empty or unreachable.
	ErrNoVersionsAvailable = errors.New("no versions available")
	// ErrVersionNotAvailable is returned when the release server answers 404 for an archive.
	ErrVersionNotAvailable = errors.New("version not available for this platform")
	// ErrDownloadFailed is returned for any other HTTP or transport failure.
	ErrDownloadFailed = errors.New("download failed")
	// ErrActivationVerificationFailed is a warning: the pointer was swapped but the
	// binary could not be executed to confirm it.
	ErrActivationVerificationFailed = errors.New("activation verification failed")
)
