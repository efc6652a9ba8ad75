package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/Mullenmaster/terraform-version-manager/internal/db"
	"github.com/Mullenmaster/terraform-version-manager/internal/fsops"
	"github.com/Mullenmaster/terraform-version-manager/internal/ui"
	"github.com/spf13/cobra"
)

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(app *App) *cobra.Command {
	var network bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment tvm depends on",
		Long:  `Check platform support, the pointer and cache locations, PATH resolution and the history database.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ui.PrintHeader("System Diagnostics")

			var issues []string
			var warnings []string

			// 1. Platform
			ui.PrintSubheader("Platform")
			key, err := app.Detector.Detect(ctx)
			if err != nil {
				ui.PrintError("Platform: %v", err)
				issues = append(issues, err.Error())
			} else {
				ui.PrintSuccess("Platform: %s", key)
			}
			if app.Detector.IsWSL(ctx) {
				ui.PrintInfo("Running under WSL")
			}

			// 2. Pointer
			ui.PrintSubheader("Active Binary Pointer")
			pointerPath := app.PointerPath(ctx)
			pointerDir := filepath.Dir(pointerPath)
			ui.PrintInfo("Pointer: %s", pointerPath)
			if err := checkDirWritable(app, pointerDir); err != nil {
				ui.PrintError("%s: not writable (%v)", pointerDir, err)
				issues = append(issues, fmt.Sprintf("Pointer directory not writable: %s", pointerDir))
			} else {
				ui.PrintSuccess("%s: writable", pointerDir)
			}

			// 3. Cache
			ui.PrintSubheader("Version Cache")
			versionCache := app.Cache(ctx, pointerPath)
			ui.PrintInfo("Cache root: %s", versionCache.Root())
			if err := checkDirWritable(app, versionCache.Root()); err != nil {
				ui.PrintError("%s: not writable (%v)", versionCache.Root(), err)
				issues = append(issues, fmt.Sprintf("Cache root not writable: %s", versionCache.Root()))
			} else {
				ui.PrintSuccess("%s: writable", versionCache.Root())
			}
			cached, err := versionCache.List()
			if err != nil {
				ui.PrintWarning("Cannot read %s: %v", versionCache.VersionsDir(), err)
				warnings = append(warnings, "Cannot read version cache")
			} else {
				ui.PrintInfo("Cached versions: %d", len(cached))
			}

			// 4. PATH
			ui.PrintSubheader("PATH Resolution")
			onPath, err := app.Runner.LookPath(core.BinaryName)
			switch {
			case err != nil:
				ui.PrintWarning("terraform is not on PATH")
				warnings = append(warnings, fmt.Sprintf("Add %s to PATH", pointerDir))
			case onPath != pointerPath:
				ui.PrintWarning("PATH resolves terraform to %s, not the pointer %s", onPath, pointerPath)
				warnings = append(warnings, "Another terraform shadows the tvm pointer")
			default:
				ui.PrintSuccess("terraform resolves to the pointer")
			}
			if active, ok := app.ActiveDetector(ctx).DetectActive(ctx); ok {
				ui.PrintInfo("Active version: %s", active)
			} else {
				ui.PrintInfo("No active terraform")
			}

			// 5. History
			ui.PrintSubheader("History Database")
			if app.Config.Paths.DBFile == "" {
				ui.PrintInfo("History disabled")
			} else if database, err := db.New(ctx, app.Config.Paths.DBFile); err != nil {
				ui.PrintWarning("Database: NOT ACCESSIBLE (%v)", err)
				warnings = append(warnings, "History database not accessible")
			} else {
				ui.PrintSuccess("Database: accessible (%s)", app.Config.Paths.DBFile)
				database.Close()
			}

			// 6. Release server
			if network {
				ui.PrintSubheader("Release Server")
				versions, err := app.Releases().ListVersions(ctx)
				if err != nil {
					ui.PrintError("%v", err)
					issues = append(issues, "Release server unreachable")
				} else {
					ui.PrintSuccess("%d versions published", len(versions))
				}
			}

			ui.PrintHeader("Summary")

			if len(issues) == 0 {
				ui.PrintSuccess("All critical checks passed!")
			} else {
				ui.PrintError("Found %d issue(s):", len(issues))
				ui.PrintList(issues)
			}

			if len(warnings) > 0 {
				ui.PrintWarning("Found %d warning(s):", len(warnings))
				ui.PrintList(warnings)
			}

			if len(issues) > 0 {
				return fmt.Errorf("system check failed with %d issue(s)", len(issues))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&network, "network", false, "also check that the release server is reachable")

	return cmd
}

// checkDirWritable checks the nearest existing ancestor of dir, since the
// directory itself is created on first install.
func checkDirWritable(app *App, dir string) error {
	for !fsops.Exists(app.Fs, dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return dirWritable(app, dir)
}
