package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mullenmaster/terraform-version-manager/internal/cmd"
	"github.com/Mullenmaster/terraform-version-manager/internal/config"
	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/Mullenmaster/terraform-version-manager/internal/logging"
	"github.com/Mullenmaster/terraform-version-manager/internal/ui"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return core.ExitInvalidArgs
	}

	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		NoColor: cfg.Logging.Color == "never",
	})

	ui.InitColors()
	if cfg.Logging.Color == "never" {
		ui.DisableColors()
	}

	rootCmd := cmd.NewRootCmd(cfg, log, version)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		return core.ExitCodeFor(err)
	}
	return core.ExitSuccess
}
