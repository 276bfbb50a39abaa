package script

import (
	"fmt"

	"github.com/spf13/cobra"

	idio "github.com/teei/idctl/internal/io"
	"github.com/teei/idctl/pkg/bridge"
	command "github.com/teei/idctl/pkg/idctlCommand"
)

type execOptions struct {
	session *command.Session

	file string
	code string
}

// newCmdExec sends ExtendScript code through executeExtendScript
func newCmdExec(session *command.Session) *cobra.Command {
	ops := &execOptions{session: session}
	execCmd := &cobra.Command{
		Use:   "exec [FILE|-]",
		Short: "Execute ExtendScript from a file, stdin or -e",
		Example: `  # From a file
  idctl script exec fix-frames.jsx

  # From stdin
  cat fix-frames.jsx | idctl script exec -

  # Inline
  idctl script exec -e 'app.activeDocument.name'`,
		Args:              cobra.MaximumNArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				ops.file = args[0]
			}
			if err := ops.Validate(); err != nil {
				return err
			}
			options, err := ops.options()
			if err != nil {
				return err
			}
			_, err = session.Exchange(cmd.Context(), bridge.ActionExecuteExtendScript, options)
			return err
		},
	}
	execCmd.Flags().StringVarP(&ops.code, "expression", "e", "", "ExtendScript code to run")

	return execCmd
}

func (o *execOptions) Validate() error {
	if o.file == "" && o.code == "" {
		return fmt.Errorf("give a file, - for stdin, or -e CODE")
	}
	if o.file != "" && o.code != "" {
		return fmt.Errorf("a file and -e cannot be used together")
	}
	return nil
}

func (o *execOptions) options() (bridge.Options, error) {
	code := o.code
	if o.file != "" {
		data, err := idio.ReadSource(o.file, o.session.In)
		if err != nil {
			return nil, err
		}
		code = data
	}
	return bridge.ExtendScriptOptions(code)
}
