package document

import (
	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
)

// NewCmdDocument implements the document command
func NewCmdDocument(session *command.Session) *cobra.Command {
	documentCmd := &cobra.Command{
		Use:               "document",
		Short:             "Create and inspect InDesign documents",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		Run:               help,
	}

	documentCmd.AddCommand(newCmdCreate(session))
	documentCmd.AddCommand(newCmdInfo(session))

	return documentCmd
}

func help(cmd *cobra.Command, _ []string) {
	_ = cmd.Help()
}
