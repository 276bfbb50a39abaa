package document

import (
	"github.com/spf13/cobra"

	"github.com/teei/idctl/pkg/bridge"
	command "github.com/teei/idctl/pkg/idctlCommand"
)

type createOptions struct {
	session *command.Session
	doc     bridge.CreateDocumentOptions
}

// newCmdCreate creates a new document, one Letter page with inch margins by default
func newCmdCreate(session *command.Session) *cobra.Command {
	ops := &createOptions{session: session, doc: bridge.DefaultCreateDocumentOptions()}
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new document",
		Example: `  # US Letter, single page, web intent
  idctl document create

  # A4 print document, 3 pages, two columns
  idctl document create --intent PRINT_INTENT --width 595.28 --height 841.89 --pages 3 --columns 2`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ops.Validate(); err != nil {
				return err
			}
			_, err := session.Exchange(cmd.Context(), bridge.ActionCreateDocument, ops.doc.Options())
			return err
		},
	}

	flags := createCmd.Flags()
	flags.StringVar(&ops.doc.Intent, "intent", ops.doc.Intent, "Document intent: WEB_INTENT, PRINT_INTENT or MOBILE_INTENT")
	flags.Float64Var(&ops.doc.PageWidth, "width", ops.doc.PageWidth, "Page width in points")
	flags.Float64Var(&ops.doc.PageHeight, "height", ops.doc.PageHeight, "Page height in points")
	flags.Float64Var(&ops.doc.Margins.Top, "margin-top", ops.doc.Margins.Top, "Top margin in points")
	flags.Float64Var(&ops.doc.Margins.Bottom, "margin-bottom", ops.doc.Margins.Bottom, "Bottom margin in points")
	flags.Float64Var(&ops.doc.Margins.Left, "margin-left", ops.doc.Margins.Left, "Left margin in points")
	flags.Float64Var(&ops.doc.Margins.Right, "margin-right", ops.doc.Margins.Right, "Right margin in points")
	flags.IntVar(&ops.doc.Columns.Count, "columns", ops.doc.Columns.Count, "Number of columns")
	flags.Float64Var(&ops.doc.Columns.Gutter, "gutter", ops.doc.Columns.Gutter, "Column gutter in points")
	flags.IntVar(&ops.doc.PagesPerDocument, "pages", ops.doc.PagesPerDocument, "Number of pages")
	flags.BoolVar(&ops.doc.PagesFacing, "facing", ops.doc.PagesFacing, "Facing pages")

	return createCmd
}

func (o *createOptions) Validate() error {
	return o.doc.Validate()
}
