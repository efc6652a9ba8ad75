package cmd

import (
	"context"

	"github.com/Mullenmaster/terraform-version-manager/internal/cache"
	"github.com/Mullenmaster/terraform-version-manager/internal/config"
	"github.com/Mullenmaster/terraform-version-manager/internal/db"
	"github.com/Mullenmaster/terraform-version-manager/internal/helpers"
	"github.com/Mullenmaster/terraform-version-manager/internal/installer"
	"github.com/Mullenmaster/terraform-version-manager/internal/paths"
	"github.com/Mullenmaster/terraform-version-manager/internal/platform"
	"github.com/Mullenmaster/terraform-version-manager/internal/pointer"
	"github.com/Mullenmaster/terraform-version-manager/internal/releases"
	"github.com/Mullenmaster/terraform-version-manager/internal/ui"
	"github.com/Mullenmaster/terraform-version-manager/internal/version"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// App carries the shared collaborators of all subcommands. Fields may be
// replaced before the command tree is built, which is how tests inject fakes.
type App struct {
	Config   *config.Config
	Log      *zerolog.Logger
	Fs       afero.Fs
	Runner   helpers.CommandRunner
	Detector *platform.Detector
	Selector ui.Selector
	Env      *paths.Env
	Progress bool
}

// NewApp builds an App wired to the real host.
func NewApp(cfg *config.Config, log *zerolog.Logger) *App {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &App{
		Config:   cfg,
		Log:      log,
		Fs:       afero.NewOsFs(),
		Runner:   helpers.NewOSCommandRunner(),
		Detector: platform.NewDetector(log),
		Selector: ui.PromptSelector{Size: 10},
		Progress: ui.IsTerminal(),
	}
}

func (a *App) pathResolver() *paths.Resolver {
	env := paths.DefaultEnv(a.Runner, a.Detector)
	if a.Env != nil {
		env = *a.Env
	}
	return paths.NewResolver(a.Config, env)
}

// PointerPath resolves the active-binary pointer location.
func (a *App) PointerPath(ctx context.Context) string {
	return a.pathResolver().PointerPath(ctx)
}

// Releases returns a release-server client built from configuration.
func (a *App) Releases() *releases.Client {
	return releases.NewClient(releases.Options{
		BaseURL:   a.Config.Releases.BaseURL,
		Timeout:   a.Config.Releases.Timeout,
		UserAgent: a.Config.Releases.UserAgent,
		Progress:  a.Progress,
	}, a.Log)
}

// Cache returns the version cache for the given pointer.
func (a *App) Cache(ctx context.Context, pointerPath string) *cache.Cache {
	root := a.pathResolver().CacheRoot(ctx, pointerPath)
	return cache.New(a.Fs, root, a.Releases(), a.Log)
}

// OpenHistory opens the activation ledger. Failure is logged and yields nil:
// history is never required for install or use to succeed.
func (a *App) OpenHistory(ctx context.Context) *db.DB {
	if a.Config.Paths.DBFile == "" {
		return nil
	}
	database, err := db.New(ctx, a.Config.Paths.DBFile)
	if err != nil {
		a.Log.Warn().Err(err).Str("path", a.Config.Paths.DBFile).Msg("history database unavailable")
		return nil
	}
	return database
}

// Installer assembles the install flow. history may be nil.
func (a *App) Installer(ctx context.Context, history *db.DB) *installer.Installer {
	pointerPath := a.PointerPath(ctx)
	client := a.Releases()

	deps := installer.Deps{
		Resolver: version.NewResolver(client, a.Fs, a.Log),
		Detector: a.Detector,
		Cache:    cache.New(a.Fs, a.pathResolver().CacheRoot(ctx, pointerPath), client, a.Log),
		Pointer:  pointer.New(a.Fs, pointerPath, a.Log),
		Lister:   client,
		Runner:   a.Runner,
		Log:      a.Log,
	}
	// A nil *db.DB must not become a non-nil interface.
	if history != nil {
		deps.History = history
	}
	return installer.New(deps)
}

// ActiveDetector reports the version behind the pointer.
func (a *App) ActiveDetector(ctx context.Context) *installer.ActiveDetector {
	return installer.NewActiveDetector(a.Fs, a.PointerPath(ctx), a.Runner, a.Log)
}
