package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	idio "github.com/teei/idctl/internal/io"
)

const completionExample = `  # Load completion into the current bash or zsh session
  source <(idctl completion bash)
  source <(idctl completion zsh)

  # Install for every new session
  idctl completion bash > /etc/bash_completion.d/idctl
  idctl completion zsh > "${fpath[1]}/_idctl"
  idctl completion fish > ~/.config/fish/completions/idctl.fish`

// newCmdCompletion creates the `completion` command
func newCmdCompletion(streams idio.IOStreams) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "completion SHELL",
		Short:                 "Output shell completion code for the specified shell (bash, zsh or fish)",
		Example:               completionExample,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		DisableAutoGenTag:     true,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected one shell: bash, zsh or fish")
			}
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(streams.Out, true)
			case "zsh":
				return root.GenZshCompletion(streams.Out)
			case "fish":
				return root.GenFishCompletion(streams.Out, true)
			default:
				return fmt.Errorf("unsupported shell type %q", args[0])
			}
		},
	}

	return cmd
}
