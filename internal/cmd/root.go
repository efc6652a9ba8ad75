package cmd

import (
	"github.com/Mullenmaster/terraform-version-manager/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	return NewRootCmdWithApp(NewApp(cfg, log), version)
}

// NewRootCmdWithApp creates the root command around a prepared App.
func NewRootCmdWithApp(app *App, version string) *cobra.Command {
	var tfVersion string

	cmd := &cobra.Command{
		Use:   "tvm",
		Short: "Terraform Version Manager",
		Long: `Terraform Version Manager: a tool for switching between different versions of Terraform.

Versions are downloaded once into a local cache and activated by pointing a
terraform symlink at the cached binary.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tfVersion != "" {
				return runInstall(cmd, app, tfVersion, app.Config.Paths.LockFile, false)
			}
			return cmd.Help()
		},
	}

	cmd.SetVersionTemplate("TVM (Terraform Version Manager) version {{.Version}}\n")
	cmd.Flags().StringVarP(&tfVersion, "tf-version", "v", "", "install and activate a terraform version (same as `tvm install <version>`)")

	cmd.AddCommand(NewInstallCmd(app))
	cmd.AddCommand(NewCurrentCmd(app))
	cmd.AddCommand(NewListCmd(app))
	cmd.AddCommand(NewUseCmd(app))
	cmd.AddCommand(NewHistoryCmd(app))
	cmd.AddCommand(NewDoctorCmd(app))
	cmd.AddCommand(NewCompletionCmd(app))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
