package cmd

import (
	"github.com/Mullenmaster/terraform-version-manager/internal/ui"
	"github.com/spf13/cobra"
)

// NewCompletionCmd creates the completion command
func NewCompletionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tvm.

To load completions:

Bash:
  $ source <(tvm completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ tvm completion bash > /etc/bash_completion.d/tvm
  # macOS:
  $ tvm completion bash > $(brew --prefix)/etc/bash_completion.d/tvm

Zsh:
  $ tvm completion zsh > "${fpath[1]}/_tvm"

Fish:
  $ tvm completion fish | source

PowerShell:
  PS> tvm completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			out := cmd.OutOrStdout()

			var err error
			switch shell {
			case "bash":
				err = cmd.Root().GenBashCompletion(out)
			case "zsh":
				err = cmd.Root().GenZshCompletion(out)
			case "fish":
				err = cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			if err != nil {
				ui.PrintError("Failed to generate %s completion: %v", shell, err)
				return err
			}

			app.Log.Debug().Str("shell", shell).Msg("generated shell completion")
			return nil
		},
	}

	return cmd
}
