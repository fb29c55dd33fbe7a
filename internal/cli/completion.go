package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand prints a shell completion script. Block ids complete
// from the current board, see blockIDCompletion.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or powershell.

Load it in the current shell, or write it where your shell picks up
completions:

  source <(gridboard completion bash)
  gridboard completion zsh > "${fpath[1]}/_gridboard"
  gridboard completion fish > ~/.config/fish/completions/gridboard.fish
  gridboard completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(output, true)
			case "zsh":
				return root.GenZshCompletion(output)
			case "fish":
				return root.GenFishCompletion(output, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(output)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}
