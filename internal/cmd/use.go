package cmd

import (
	"errors"

	"github.com/Mullenmaster/terraform-version-manager/internal/ui"
	"github.com/spf13/cobra"
)

// NewUseCmd creates the use command
func NewUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [version]",
		Short: "Activate an already installed Terraform version",
		Long: `Activate a cached Terraform version. Without an argument an interactive
picker lists the versions in the local cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 1 {
				return runInstall(cmd, app, args[0], "", false)
			}

			versions, err := app.Cache(ctx, app.PointerPath(ctx)).List()
			if err != nil {
				ui.PrintError("%v", err)
				return err
			}
			if len(versions) == 0 {
				ui.PrintInfo("No Terraform versions installed yet. Run `tvm install <version>` first.")
				return nil
			}

			active, _ := app.ActiveDetector(ctx).DetectActive(ctx)
			label := "Select Terraform version"
			if active != "" {
				label += " (active: " + active + ")"
			}

			_, selected, err := app.Selector.Select(label, versions)
			if errors.Is(err, ui.ErrSelectionCancelled) {
				ui.PrintInfo("Cancelled")
				return nil
			}
			if err != nil {
				ui.PrintError("%v", err)
				return err
			}

			return runInstall(cmd, app, selected, "", false)
		},
	}

	return cmd
}
