package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
	"github.com/Mullenmaster/terraform-version-manager/internal/ui"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command
func NewInstallCmd(app *App) *cobra.Command {
	var (
		lockFile   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "install [version|latest]",
		Short: "Install and activate a Terraform version",
		Long: `Install a specific version of Terraform and make it the active one.

Examples:
  tvm install 1.5.7
  tvm install latest
  tvm install            # version pinned in terraform.lock.hcl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit := ""
			if len(args) == 1 {
				explicit = args[0]
			}
			if lockFile == "" {
				lockFile = app.Config.Paths.LockFile
			}
			return runInstall(cmd, app, explicit, lockFile, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&lockFile, "lock-file", "", "lock file to read the version from when none is given (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output the install report as JSON")

	return cmd
}

// runInstall is shared by "install", "use" and the root --tf-version flag.
func runInstall(cmd *cobra.Command, app *App, explicit, lockFile string, jsonOutput bool) error {
	ctx := cmd.Context()

	history := app.OpenHistory(ctx)
	if history != nil {
		defer history.Close()
	}

	report, err := app.Installer(ctx, history).Install(ctx, explicit, lockFile)
	if err != nil && !(report != nil && errors.Is(err, core.ErrActivationVerificationFailed)) {
		ui.PrintError("%v", err)
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	ui.PrintInfo("Detected platform: %s_%s", report.OS, report.Arch)
	if report.CacheHit {
		ui.PrintInfo("Using cached terraform %s", report.Version)
	}
	ui.PrintSuccess("Terraform %s is now active (%s -> %s)", report.Version, report.PointerPath, report.ExecutablePath)

	if report.Verified {
		fmt.Fprintln(cmd.OutOrStdout(), report.VersionLine)
	} else {
		ui.PrintWarning("could not run %s -v: %v", report.PointerPath, err)
	}

	return nil
}
