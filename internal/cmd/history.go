package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Mullenmaster/terraform-version-manager/internal/db"
	"github.com/Mullenmaster/terraform-version-manager/internal/ui"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd(app *App) *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past Terraform activations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			database, err := db.New(ctx, app.Config.Paths.DBFile)
			if err != nil {
				ui.PrintError("failed to open database: %v", err)
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			activations, err := database.List(ctx, limit)
			if err != nil {
				ui.PrintError("failed to read history: %v", err)
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(activations)
			}

			if len(activations) == 0 {
				ui.PrintInfo("No activations recorded")
				return nil
			}

			printHistoryTable(cmd, activations)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 = all)")

	return cmd
}

func printHistoryTable(cmd *cobra.Command, activations []db.Activation) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"When", "Version", "Platform", "Source", "Cached", "Pointer"}),
		tablewriter.WithAlignment(tw.MakeAlign(6, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, a := range activations {
		cached := "no"
		if a.CacheHit {
			cached = "yes"
		}
		source := a.Source
		if source == "" {
			source = "-"
		}

		table.Append(
			a.ActivatedAt.Local().Format("2006-01-02 15:04"),
			a.Version,
			a.OS+"_"+a.Arch,
			source,
			cached,
			a.PointerPath,
		)
	}

	table.Render()
}
