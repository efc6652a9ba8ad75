// Package installer ties version resolution, platform detection, the version
// cache and the active-binary pointer into a single install/activate flow.
package installer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/Mullenmaster/terraform-version-manager/internal/db"
	"github.com/Mullenmaster/terraform-version-manager/internal/helpers"
	"github.com/Mullenmaster/terraform-version-manager/internal/platform"
	"github.com/Mullenmaster/terraform-version-manager/internal/version"
	"github.com/rs/zerolog"
)

const (
	verifyTimeout  = 30 * time.Second
	maxSuggestions = 3
)

// VersionResolver turns user input or a lock file into a concrete version.
type VersionResolver interface {
	Resolve(ctx context.Context, explicit, lockPath string) (version.Resolved, error)
}

// PlatformDetector reports the release-server platform of the host.
type PlatformDetector interface {
	Detect(ctx context.Context) (platform.Key, error)
}

// VersionCache provides a local executable for a version.
type VersionCache interface {
	EnsureInstalled(ctx context.Context, v string, key platform.Key) (path string, hit bool, err error)
}

// Pointer is the active-binary symlink.
type Pointer interface {
	Path() string
	Activate(target string) error
}

// HistoryRecorder persists activations.
type HistoryRecorder interface {
	Record(ctx context.Context, a *db.Activation) error
}

// Deps are the collaborators of an Installer. Lister, Runner and History are
// optional.
type Deps struct {
	Resolver VersionResolver
	Detector PlatformDetector
	Cache    VersionCache
	Pointer  Pointer
	Lister   version.Lister
	Runner   helpers.CommandRunner
	History  HistoryRecorder
	Log      *zerolog.Logger
}

// Installer installs and activates terraform versions.
type Installer struct {
	resolver VersionResolver
	detector PlatformDetector
	cache    VersionCache
	pointer  Pointer
	lister   version.Lister
	runner   helpers.CommandRunner
	history  HistoryRecorder
	log      *zerolog.Logger
}

// New creates an Installer.
func New(d Deps) *Installer {
	log := d.Log
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Installer{
		resolver: d.Resolver,
		detector: d.Detector,
		cache:    d.Cache,
		pointer:  d.Pointer,
		lister:   d.Lister,
		runner:   d.Runner,
		history:  d.History,
		log:      log,
	}
}

// Install resolves the requested version (explicit argument, "latest", or the
// lock file at lockPath), makes sure it is cached, points the active binary at
// it and verifies the result.
//
// When only verification fails the report is returned together with an error
// wrapping core.ErrActivationVerificationFailed; the pointer stays in place.
func (i *Installer) Install(ctx context.Context, explicit, lockPath string) (*core.InstallReport, error) {
	// Platform first: an unsupported host must fail before any request is made.
	key, err := i.detector.Detect(ctx)
	if err != nil {
		return nil, err
	}

	resolved, err := i.resolver.Resolve(ctx, explicit, lockPath)
	if err != nil {
		return nil, err
	}

	i.log.Debug().
		Str("version", resolved.Version).
		Str("source", string(resolved.Source)).
		Str("platform", key.String()).
		Msg("installing terraform")

	exe, hit, err := i.cache.EnsureInstalled(ctx, resolved.Version, key)
	if err != nil {
		return nil, i.enrichNotAvailable(ctx, resolved.Version, err)
	}

	if err := i.pointer.Activate(exe); err != nil {
		return nil, fmt.Errorf("activate terraform %s: %w", resolved.Version, err)
	}

	report := &core.InstallReport{
		Version:        resolved.Version,
		OS:             key.OS,
		Arch:           key.Arch,
		ExecutablePath: exe,
		PointerPath:    i.pointer.Path(),
		CacheHit:       hit,
	}

	var verifyErr error
	report.VersionLine, verifyErr = i.verify(ctx)
	report.Verified = verifyErr == nil
	if verifyErr != nil {
		i.log.Warn().Err(verifyErr).Str("pointer", report.PointerPath).Msg("could not verify activated terraform")
	}

	i.record(ctx, resolved, report)

	if verifyErr != nil {
		return report, verifyErr
	}
	return report, nil
}

// verify runs "<pointer> -v" and returns the first line of its output.
func (i *Installer) verify(ctx context.Context) (string, error) {
	if i.runner == nil {
		return "", fmt.Errorf("%w: no command runner", core.ErrActivationVerificationFailed)
	}

	vctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	out, err := i.runner.RunCommand(vctx, i.pointer.Path(), "-v")
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrActivationVerificationFailed, err)
	}

	line := firstLine(out)
	if line == "" {
		return "", fmt.Errorf("%w: %s -v printed nothing", core.ErrActivationVerificationFailed, i.pointer.Path())
	}
	return line, nil
}

func (i *Installer) record(ctx context.Context, resolved version.Resolved, report *core.InstallReport) {
	if i.history == nil {
		return
	}

	err := i.history.Record(ctx, &db.Activation{
		Version:        report.Version,
		OS:             report.OS,
		Arch:           report.Arch,
		Source:         string(resolved.Source),
		ExecutablePath: report.ExecutablePath,
		PointerPath:    report.PointerPath,
		CacheHit:       report.CacheHit,
		VersionLine:    report.VersionLine,
	})
	if err != nil {
		i.log.Warn().Err(err).Msg("failed to record activation history")
	}
}

// enrichNotAvailable appends close published versions to a 404 error.
func (i *Installer) enrichNotAvailable(ctx context.Context, v string, err error) error {
	if !errors.Is(err, core.ErrVersionNotAvailable) || i.lister == nil {
		return err
	}

	available, listErr := i.lister.ListVersions(ctx)
	if listErr != nil {
		i.log.Debug().Err(listErr).Msg("release listing unavailable for suggestions")
		return err
	}

	suggestions := version.Suggest(v, available, maxSuggestions)
	if len(suggestions) == 0 {
		return err
	}
	return fmt.Errorf("%w (did you mean: %s?)", err, strings.Join(suggestions, ", "))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
