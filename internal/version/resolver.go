package version

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Lister returns the published versions.
type Lister interface {
	ListVersions(ctx context.Context) ([]string, error)
}

// Source records where a resolved version came from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceLockFile Source = "lockfile"
	SourceLatest   Source = "latest"
)

// Resolved is a concrete version plus its provenance.
type Resolved struct {
	Version string
	Source  Source
}

// Resolver turns user input into a concrete X.Y.Z version.
type Resolver struct {
	lister Lister
	fs     afero.Fs
	log    *zerolog.Logger
}

// NewResolver creates a resolver. fs is used to read the lock file.
func NewResolver(lister Lister, fs afero.Fs, log *zerolog.Logger) *Resolver {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Resolver{lister: lister, fs: fs, log: log}
}

// Resolve applies the precedence: explicit argument, then lock file. An explicit
// "latest" is replaced by the newest published version, so the result is always
// a concrete X.Y.Z.
func (r *Resolver) Resolve(ctx context.Context, explicit, lockPath string) (Resolved, error) {
	requested := strings.TrimSpace(explicit)
	source := SourceExplicit

	if requested == "" {
		pinned, err := ReadLockFile(r.fs, lockPath)
		if err != nil {
			return Resolved{}, err
		}
		r.log.Debug().Str("lock_file", lockPath).Str("version", pinned).Msg("version pinned by lock file")
		requested = pinned
		source = SourceLockFile
	}

	if IsLatest(requested) {
		latest, err := r.Latest(ctx)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Version: latest, Source: SourceLatest}, nil
	}

	v, err := Parse(requested)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Version: v.String(), Source: source}, nil
}

// Latest returns the newest version from the listing.
func (r *Resolver) Latest(ctx context.Context) (string, error) {
	if r.lister == nil {
		return "", fmt.Errorf("%w: no release listing configured", core.ErrNoVersionsAvailable)
	}

	versions, err := r.lister.ListVersions(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrNoVersionsAvailable, err)
	}

	latest, ok := Max(versions)
	if !ok {
		return "", fmt.Errorf("%w: release listing is empty", core.ErrNoVersionsAvailable)
	}

	r.log.Debug().Int("published", len(versions)).Str("latest", latest).Msg("resolved latest version")
	return latest, nil
}
