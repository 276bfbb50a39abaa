package cmd

import (
	"github.com/spf13/cobra"

	idio "github.com/teei/idctl/internal/io"
)

const optionsTemplate = `The following options can be passed to any command:

{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
`

// newCmdOptions implements the options command which shows all global options
func newCmdOptions(streams idio.IOStreams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the list of flags inherited by all commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}

	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)
	cmd.SetUsageTemplate(optionsTemplate)

	return cmd
}
