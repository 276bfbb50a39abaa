package job

import (
	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
)

// NewCmdJob implements the job command
func NewCmdJob(session *command.Session) *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   "job",
		Short: "Run a sequence of commands from a YAML or TOML job file",
		Long: `Run a sequence of commands from a job file.

A job file names an application and an ordered list of steps:

  name: brief
  vars:
    OUT: ~/exports/brief.pdf
  steps:
    - action: createDocument
    - action: applyColorsViaExtendScript
      continue_on_error: true
    - action: exportPDF
      options:
        outputPath: ${OUT}
        preset: High Quality Print

Files ending in .toml are read as TOML.`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	jobCmd.AddCommand(newCmdRun(session))
	jobCmd.AddCommand(newCmdValidate(session))

	return jobCmd
}
