package job

import (
	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/printer"
)

// newCmdValidate checks a job file without sending anything
func newCmdValidate(session *command.Session) *cobra.Command {
	var set map[string]string
	validateCmd := &cobra.Command{
		Use:               "validate FILE",
		Short:             "Check a job file and its variables",
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := load(session, args[0], set)
			if err != nil {
				return err
			}
			if format := session.Output(); format != printer.FormatText {
				return printer.Structured(session.Out, format, job)
			}
			printer.OK(session.Out, "%s: %d steps for %s", job.Name, len(job.Steps), job.Application)
			return nil
		},
	}
	validateCmd.Flags().StringToStringVar(&set, "set", nil, "Set a job variable (eg. --set OUT=/tmp/a.pdf)")

	return validateCmd
}
