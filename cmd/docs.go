package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	idio "github.com/teei/idctl/internal/io"
	"github.com/teei/idctl/pkg/docgen"
)

// newCmdDocs generates the markdown reference of every command
func newCmdDocs(streams idio.IOStreams) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "docs <dir>",
		Short:                 "Generates documentation files",
		Hidden:                true,
		DisableAutoGenTag:     true,
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := docgen.Generate(cmd.Root(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(streams.Out, "Documents generated successfully on", args[0])
			return nil
		},
	}

	return cmd
}
