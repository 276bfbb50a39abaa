package job

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/jobs"
	"github.com/teei/idctl/pkg/printer"
)

type runOptions struct {
	session *command.Session

	file   string
	set    map[string]string
	dryRun bool
}

// newCmdRun runs the steps of a job file in order
func newCmdRun(session *command.Session) *cobra.Command {
	ops := &runOptions{session: session}
	runCmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a job file",
		Example: `  idctl job run brief.yaml --set OUT=/tmp/brief.pdf
  idctl job run brief.yaml --dry-run`,
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops.file = args[0]
			job, err := load(session, ops.file, ops.set)
			if err != nil {
				return err
			}
			client, err := session.Client()
			if err != nil {
				return err
			}
			runner := jobs.NewRunner(client).WithDryRun(ops.dryRun)
			if session.Output() == printer.FormatText {
				printer.Banner(session.Out, "Job "+job.Name)
				runner.WithStepHook(ops.printStep)
			}
			res, err := runner.Run(cmd.Context(), job)
			if err != nil {
				return err
			}
			return ops.finish(res)
		},
	}
	runCmd.Flags().StringToStringVar(&ops.set, "set", nil, "Set a job variable (eg. --set OUT=/tmp/a.pdf)")
	runCmd.Flags().BoolVar(&ops.dryRun, "dry-run", false, "Print the commands without sending them")

	return runCmd
}

func (o *runOptions) printStep(i int, res jobs.StepResult) {
	out := o.session.Out
	label := fmt.Sprintf("%d. %s (%s)", i+1, res.Name, res.Action)
	switch {
	case res.Status == jobs.StatusDryRun:
		body, _ := json.Marshal(res.Command)
		fmt.Fprintf(out, "%s\n   %s\n", label, body)
	case res.Status == jobs.StatusSkipped:
		printer.Warn(out, "%s skipped", label)
	case res.OK():
		printer.OK(out, "%s %s", label, res.Duration.Round(time.Millisecond))
	default:
		printer.Fail(out, "%s: %s", label, res.Message)
	}
}

func (o *runOptions) finish(res *jobs.Result) error {
	if format := o.session.Output(); format != printer.FormatText {
		if err := printer.Structured(o.session.Out, format, res); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(o.session.Out, "\n%d steps, %d failed\n", len(res.Steps), res.Failed)
	}
	if !res.OK {
		return &command.ExitError{Code: command.ExitFailure, Err: fmt.Errorf("job %s failed", res.Job)}
	}
	return nil
}

// load reads, substitutes and validates a job file.
func load(session *command.Session, path string, set map[string]string) (*jobs.Job, error) {
	job, err := jobs.Load(session.Fs, path)
	if err != nil {
		return nil, err
	}
	if err := job.Substitute(set); err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}
