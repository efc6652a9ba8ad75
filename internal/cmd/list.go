package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Mullenmaster/terraform-version-manager/internal/ui"
	"github.com/Mullenmaster/terraform-version-manager/internal/version"
	"github.com/spf13/cobra"
)

type listEntry struct {
	Version   string `json:"version"`
	Active    bool   `json:"active"`
	Installed bool   `json:"installed"`
}

// NewListCmd creates the list command
func NewListCmd(app *App) *cobra.Command {
	var (
		jsonOutput bool
		installed  bool
		constraint string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available Terraform versions",
		Long: `List Terraform versions published on the release server, newest first.
The active version is marked with '*'.

Use --installed to list only versions present in the local cache, and
--constraint to filter (e.g. "~> 1.5", ">= 1.4, < 1.6").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pointerPath := app.PointerPath(ctx)
			versionCache := app.Cache(ctx, pointerPath)

			cached, err := versionCache.List()
			if err != nil {
				app.Log.Warn().Err(err).Msg("could not read version cache")
			}

			var versions []string
			if installed {
				versions = cached
			} else {
				versions, err = app.Releases().ListVersions(ctx)
				if err != nil {
					ui.PrintError("failed to fetch available Terraform versions: %v", err)
					return err
				}
				version.SortDescending(versions)
			}

			versions, err = version.Filter(versions, constraint)
			if err != nil {
				ui.PrintError("%v", err)
				return err
			}

			if limit > 0 && len(versions) > limit {
				versions = versions[:limit]
			}

			active, _ := app.ActiveDetector(ctx).DetectActive(ctx)

			cachedSet := make(map[string]bool, len(cached))
			for _, v := range cached {
				cachedSet[v] = true
			}

			entries := make([]listEntry, 0, len(versions))
			for _, v := range versions {
				entries = append(entries, listEntry{Version: v, Active: v == active, Installed: cachedSet[v]})
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				if installed {
					ui.PrintInfo("No Terraform versions installed in %s", versionCache.VersionsDir())
				} else {
					ui.PrintWarning("No Terraform versions match")
				}
				return nil
			}

			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), ui.FormatVersionLine(e.Version, e.Active))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().BoolVar(&installed, "installed", false, "list only versions in the local cache")
	cmd.Flags().StringVar(&constraint, "constraint", "", "only show versions matching a constraint")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most N versions (0 = all)")

	return cmd
}
