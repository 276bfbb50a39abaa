package document

import (
	"github.com/spf13/cobra"

	"github.com/teei/idctl/pkg/bridge"
	command "github.com/teei/idctl/pkg/idctlCommand"
)

// newCmdInfo prints what the plugin reports about the active document
func newCmdInfo(session *command.Session) *cobra.Command {
	var read bool
	infoCmd := &cobra.Command{
		Use:               "info",
		Short:             "Show the name, page count and path of the active document",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			action := bridge.ActionGetDocumentInfo
			if read {
				action = bridge.ActionReadDocumentInfo
			}
			_, err := session.Exchange(cmd.Context(), action, nil)
			return err
		},
	}
	infoCmd.Flags().BoolVar(&read, "read", false, "Use readDocumentInfo, which also reports pages, spreads and stories")

	return infoCmd
}
