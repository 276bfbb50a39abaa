package script

import (
	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
)

// NewCmdScript implements the script command
func NewCmdScript(session *command.Session) *cobra.Command {
	scriptCmd := &cobra.Command{
		Use:               "script",
		Short:             "Run ExtendScript in InDesign",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	scriptCmd.AddCommand(newCmdExec(session))

	return scriptCmd
}
