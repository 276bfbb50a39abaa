package colors

import (
	"fmt"

	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/palette"
	"github.com/teei/idctl/pkg/printer"
)

// newCmdValidate checks colors against the palette without talking to the proxy
func newCmdValidate(session *command.Session) *cobra.Command {
	return &cobra.Command{
		Use:               "validate HEX...",
		Short:             "Check hex colors against the brand palette",
		Example:           `  idctl colors validate "#00393F" C87137 fff`,
		Args:              cobra.MinimumNArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := session.Palette()
			if err != nil {
				return err
			}
			results := make([]palette.Validation, 0, len(args))
			invalid := 0
			for _, arg := range args {
				v := p.Validate(arg)
				if !v.Valid {
					invalid++
				}
				results = append(results, v)
			}

			if format := session.Output(); format != printer.FormatText {
				if err := printer.Structured(session.Out, format, results); err != nil {
					return err
				}
			} else {
				for _, v := range results {
					switch {
					case v.Valid:
						printer.OK(session.Out, "%s", v.Message)
					case v.Forbidden:
						printer.Fail(session.Out, "%s (use %s)", v.Message, v.Suggestion)
					default:
						printer.Warn(session.Out, "%s", v.Message)
					}
				}
			}

			if invalid > 0 {
				return &command.ExitError{Code: command.ExitFailure, Err: fmt.Errorf("%d of %d colors are not brand colors", invalid, len(args))}
			}
			return nil
		},
	}
}
