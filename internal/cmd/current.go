package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCurrentCmd creates the current command
func NewCurrentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the currently installed Terraform version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			active, ok := app.ActiveDetector(cmd.Context()).DetectActive(cmd.Context())
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Terraform is not currently installed.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Currently installed Terraform version: %s\n", active)
			return nil
		},
	}

	return cmd
}
