package colors

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teei/idctl/pkg/bridge"
	command "github.com/teei/idctl/pkg/idctlCommand"
)

type applyOptions struct {
	session *command.Session

	swatches bool
	only     []string
}

// newCmdApply colors the active document with the brand palette
func newCmdApply(session *command.Session) *cobra.Command {
	ops := &applyOptions{session: session}
	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the brand colors to the active document",
		Long: `Apply the brand colors to the active document.

By default the plugin's applyColorsViaExtendScript action colors the document.
With --swatches idctl instead creates or updates the palette swatches in the
document, named after the palette prefix.`,
		Example: `  # Let the plugin apply the palette
  idctl colors apply

  # Create every brand swatch in the document
  idctl colors apply --swatches

  # Only two of them
  idctl colors apply --swatches --only nordshore,sky`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ops.Validate(); err != nil {
				return err
			}
			action, options, err := ops.command()
			if err != nil {
				return err
			}
			_, err = session.Exchange(cmd.Context(), action, options)
			return err
		},
	}
	applyCmd.Flags().BoolVar(&ops.swatches, "swatches", false, "Create or update the palette swatches instead of applying colors")
	applyCmd.Flags().StringSliceVar(&ops.only, "only", nil, "With --swatches, the swatch names to create")

	return applyCmd
}

func (o *applyOptions) Validate() error {
	if len(o.only) > 0 && !o.swatches {
		return fmt.Errorf("--only needs --swatches")
	}
	return nil
}

// command picks the action and builds its options.
func (o *applyOptions) command() (string, bridge.Options, error) {
	if !o.swatches {
		return bridge.ActionApplyColorsViaExtendScript, nil, nil
	}
	p, err := o.session.Palette()
	if err != nil {
		return "", nil, err
	}
	swatches := p.Swatches
	if len(o.only) > 0 {
		if swatches, err = p.Select(o.only); err != nil {
			return "", nil, err
		}
	}
	code, err := p.SwatchScript(swatches)
	if err != nil {
		return "", nil, err
	}
	options, err := bridge.ExtendScriptOptions(code)
	if err != nil {
		return "", nil, err
	}
	return bridge.ActionExecuteExtendScript, options, nil
}
