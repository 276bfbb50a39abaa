package colors

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/printer"
)

// newCmdPalette lists the brand palette
func newCmdPalette(session *command.Session) *cobra.Command {
	var context string
	paletteCmd := &cobra.Command{
		Use:               "palette",
		Short:             "List the brand swatches and forbidden colors",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := session.Palette()
			if err != nil {
				return err
			}
			out := session.Out
			format := session.Output()

			if context != "" {
				s := p.ForContext(context)
				if format != printer.FormatText {
					return printer.Structured(out, format, s)
				}
				fmt.Fprintf(out, "%s: %s %s\n", context, s.Name, s.Hex)
				return nil
			}
			if format != printer.FormatText {
				return printer.Structured(out, format, p)
			}

			rows := make([][]string, 0, len(p.Swatches))
			for _, s := range p.Swatches {
				rows = append(rows, []string{
					p.DocumentName(s),
					s.Hex,
					fmt.Sprintf("%d,%d,%d", s.RGB[0], s.RGB[1], s.RGB[2]),
					fmt.Sprintf("%g,%g,%g,%g", s.CMYK[0], s.CMYK[1], s.CMYK[2], s.CMYK[3]),
					s.Usage,
				})
			}
			printer.RenderTable(out, []string{"Swatch", "Hex", "RGB", "CMYK", "Usage"}, rows)

			for _, f := range p.Forbidden {
				printer.Warn(out, "%s is forbidden: %s", f.Hex, f.Reason)
			}
			fmt.Fprintf(out, "Contexts: %s\n", strings.Join(p.ContextNames(), ", "))
			return nil
		},
	}
	paletteCmd.Flags().StringVar(&context, "context", "", "Only print the swatch used for this context (eg. header, accent)")

	return paletteCmd
}
