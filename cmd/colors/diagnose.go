package colors

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teei/idctl/pkg/diagnostics"
	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/printer"
)

type diagnoseOptions struct {
	session *command.Session
	strict  bool
}

// newCmdDiagnose prints the diagnoseColors report of the active document
func newCmdDiagnose(session *command.Session) *cobra.Command {
	ops := &diagnoseOptions{session: session}
	diagnoseCmd := &cobra.Command{
		Use:               "diagnose",
		Short:             "Report frames filled with black or with no fill",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := session.Client()
			if err != nil {
				return err
			}
			report, err := diagnostics.Run(cmd.Context(), client)
			if err != nil {
				return err
			}
			return ops.print(report)
		},
	}
	diagnoseCmd.Flags().BoolVar(&ops.strict, "strict", false, "Fail when any line is flagged")

	return diagnoseCmd
}

func (o *diagnoseOptions) print(report *diagnostics.Report) error {
	out := o.session.Out
	if format := o.session.Output(); format != printer.FormatText {
		if err := printer.Structured(out, format, report); err != nil {
			return err
		}
	} else {
		printer.Banner(out, "Color diagnostics")
		fmt.Fprintln(out, report.Raw)
		fmt.Fprintln(out)
		if report.Clean() {
			printer.OK(out, "%s", report.Summary())
		} else {
			printer.Warn(out, "%s", report.Summary())
		}
	}

	if o.strict && !report.Clean() {
		return &command.ExitError{Code: command.ExitFailure, Err: fmt.Errorf("color diagnostics flagged %s", report.Summary())}
	}
	return nil
}
