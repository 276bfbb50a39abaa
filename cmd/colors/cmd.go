package colors

import (
	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
)

// NewCmdColors implements the colors command
func NewCmdColors(session *command.Session) *cobra.Command {
	colorsCmd := &cobra.Command{
		Use:               "colors",
		Short:             "Apply, check and diagnose the brand palette",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	colorsCmd.AddCommand(newCmdApply(session))
	colorsCmd.AddCommand(newCmdDiagnose(session))
	colorsCmd.AddCommand(newCmdPalette(session))
	colorsCmd.AddCommand(newCmdValidate(session))

	return colorsCmd
}
