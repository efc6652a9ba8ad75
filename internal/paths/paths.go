package paths

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Mullenmaster/terraform-version-manager/internal/config"
	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/Mullenmaster/terraform-version-manager/internal/helpers"
)

// DefaultPointer is used when no terraform is found on the system.
const DefaultPointer = "/usr/local/bin/terraform"

const brewTimeout = 10 * time.Second

// WSLDetector reports whether tvm runs under the Windows Subsystem for Linux.
type WSLDetector interface {
	IsWSL(ctx context.Context) bool
}

// Env describes the host facts path resolution depends on.
type Env struct {
	GOOS   string
	EUID   int
	Runner helpers.CommandRunner
	WSL    WSLDetector
}

// DefaultEnv fills GOOS and EUID from the running process.
func DefaultEnv(runner helpers.CommandRunner, wsl WSLDetector) Env {
	return Env{
		GOOS:   runtime.GOOS,
		EUID:   os.Geteuid(),
		Runner: runner,
		WSL:    wsl,
	}
}

// Resolver computes the pointer location and cache root from configuration
// and the host.
type Resolver struct {
	homeDir string
	cfg     *config.Config
	env     Env
}

// NewResolver creates a Resolver using the current user's HOME.
func NewResolver(cfg *config.Config, env Env) *Resolver {
	homeDir, _ := os.UserHomeDir()
	return NewResolverWithHome(cfg, homeDir, env)
}

// NewResolverWithHome creates a Resolver with an explicit homeDir (useful for tests).
func NewResolverWithHome(cfg *config.Config, homeDir string, env Env) *Resolver {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Resolver{
		homeDir: homeDir,
		cfg:     cfg,
		env:     env,
	}
}

// HomeDir returns the resolved HOME directory.
func (r *Resolver) HomeDir() string {
	return r.homeDir
}

// PointerPath returns the active-binary pointer location. Order: configured
// path, Homebrew's terraform prefix on darwin, terraform on PATH, then
// DefaultPointer.
func (r *Resolver) PointerPath(ctx context.Context) string {
	if r.cfg.Paths.Pointer != "" {
		return r.cfg.Paths.Pointer
	}

	if r.env.Runner == nil {
		return DefaultPointer
	}

	if r.env.GOOS == "darwin" && r.env.Runner.CommandExists("brew") {
		bctx, cancel := context.WithTimeout(ctx, brewTimeout)
		defer cancel()
		if out, err := r.env.Runner.RunCommand(bctx, "brew", "--prefix", core.BinaryName); err == nil {
			if prefix := strings.TrimSpace(out); prefix != "" {
				return filepath.Join(prefix, "bin", core.BinaryName)
			}
		}
	}

	if path, err := r.env.Runner.LookPath(core.BinaryName); err == nil && path != "" {
		return path
	}

	return DefaultPointer
}

// CacheRoot returns the directory that holds .tfVersions. An explicit
// paths.cache_root wins; otherwise the strategy decides between the
// pointer's directory and HOME.
func (r *Resolver) CacheRoot(ctx context.Context, pointer string) string {
	if r.cfg.Paths.CacheRoot != "" {
		return r.cfg.Paths.CacheRoot
	}

	switch r.cfg.Paths.CacheStrategy {
	case config.StrategyHome:
		return r.homeDir
	case config.StrategyPointerDir:
		return filepath.Dir(pointer)
	default:
		if r.preferHome(ctx) {
			return r.homeDir
		}
		return filepath.Dir(pointer)
	}
}

// preferHome is true where the pointer directory is a poor cache location:
// under WSL, and for root on linux.
func (r *Resolver) preferHome(ctx context.Context) bool {
	if r.homeDir == "" || r.env.GOOS != "linux" {
		return false
	}
	if r.env.EUID == 0 {
		return true
	}
	return r.env.WSL != nil && r.env.WSL.IsWSL(ctx)
}
