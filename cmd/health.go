package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teei/idctl/pkg/health"
	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/idctlConfig"
	"github.com/teei/idctl/pkg/printer"
	"github.com/teei/idctl/pkg/version_check"
)

type healthOptions struct {
	session *command.Session

	skipDocument     bool
	requireDocument  bool
	minPluginVersion string
}

// newCmdHealth runs the staged connection check
func newCmdHealth(session *command.Session) *cobra.Command {
	ops := &healthOptions{session: session}
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check the config, proxy, plugin and open document in order",
		Long: `Check every link between idctl and InDesign, stopping at the first
broken one. Exits 2 when a stage fails.`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ops.Validate(); err != nil {
				return err
			}
			return ops.run(cmd)
		},
	}
	healthCmd.Flags().BoolVar(&ops.skipDocument, "skip-document", false, "Do not query the active document")
	healthCmd.Flags().BoolVar(&ops.requireDocument, "require-document", false, "Fail when no document is open")
	healthCmd.Flags().StringVar(&ops.minPluginVersion, "min-plugin-version", version_check.MinPluginVersion, "Oldest plugin version accepted")

	return healthCmd
}

func (o *healthOptions) Validate() error {
	if o.skipDocument && o.requireDocument {
		return fmt.Errorf("--skip-document and --require-document cannot be used together")
	}
	return nil
}

// run loads the settings itself: a config that does not load is reported
// as a failed config stage.
func (o *healthOptions) run(cmd *cobra.Command) error {
	if err := printer.ValidateFormat(o.session.Output()); err != nil {
		return err
	}
	var report *health.Report
	if client, err := o.session.Client(); err != nil {
		report = health.ConfigFailed(o.session.Viper.GetString(idctlConfig.ProxyURLKey), err)
	} else {
		report = health.NewChecker(client).
			WithDocumentCheck(!o.skipDocument).
			WithRequireDocument(o.requireDocument).
			WithMinPluginVersion(o.minPluginVersion).
			Run(cmd.Context())
	}

	if format := o.session.Output(); format != printer.FormatText {
		if err := printer.Structured(o.session.Out, format, report); err != nil {
			return err
		}
	} else {
		printReport(o.session, report)
	}

	if !report.Healthy {
		return &command.ExitError{Code: command.ExitUnhealthy, Err: fmt.Errorf("unhealthy at %s stage", report.Stage)}
	}
	return nil
}

func printReport(session *command.Session, report *health.Report) {
	out := session.Out
	printer.Banner(out, "InDesign connection health")
	for _, r := range report.Results {
		if r.OK {
			printer.OK(out, "%s", r.Stage)
		} else {
			printer.Fail(out, "%s: %s", r.Stage, r.Error)
		}
		p := printer.NewTablePrinter(out, 0, 8, 2, ' ')
		for _, k := range sortedKeys(r.Details) {
			p.AddRow([]string{"    " + k + ":", r.Details[k]})
		}
		_ = p.Flush()
		for _, hint := range r.Hints {
			fmt.Fprintf(out, "    - %s\n", hint)
		}
	}
	fmt.Fprintln(out)
	if report.Healthy {
		printer.OK(out, "healthy")
		return
	}
	printer.Fail(out, "unhealthy (%s)", strings.ToLower(report.Stage))
}
