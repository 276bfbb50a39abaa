package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teei/idctl/pkg/bridge"
	command "github.com/teei/idctl/pkg/idctlCommand"
)

// newCmdPing checks that the plugin behind the proxy answers
func newCmdPing(session *command.Session) *cobra.Command {
	return &cobra.Command{
		Use:               "ping",
		Short:             "Check that InDesign answers through the proxy",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := session.Exchange(cmd.Context(), bridge.ActionPing, nil)
			return err
		},
	}
}
