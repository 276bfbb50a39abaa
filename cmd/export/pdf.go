package export

import (
	"github.com/spf13/cobra"

	"github.com/teei/idctl/pkg/bridge"
	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/export"
)

type pdfOptions struct {
	commonOptions

	profile         string
	preset          string
	viaExtendScript bool
}

// newCmdPDF exports the active document to PDF and checks the file
func newCmdPDF(session *command.Session, opener Opener) *cobra.Command {
	ops := &pdfOptions{commonOptions: commonOptions{session: session, opener: opener}}
	pdfCmd := &cobra.Command{
		Use:   "pdf",
		Short: "Export the active document to PDF",
		Example: `  # High Quality Print into the export directory
  idctl export pdf -f brief

  # Press-ready PDF/X-4 with bleed and crop marks
  idctl export pdf -f ~/Desktop/brief.pdf --profile print --force

  # Through ExtendScript, for plugins without exportPDF
  idctl export pdf -f brief.pdf --via-extendscript --open`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ops.options()
			if err != nil {
				return err
			}
			exporter, err := ops.exporter()
			if err != nil {
				return err
			}
			res, err := exporter.PDF(cmd.Context(), opts, ops.viaExtendScript)
			if err != nil {
				return session.Report(err)
			}
			return ops.finish(res)
		},
	}
	ops.addFlags(pdfCmd)
	pdfCmd.Flags().StringVar(&ops.profile, "profile", bridge.ProfileDefault, "Export profile: default, print or digital")
	pdfCmd.Flags().StringVar(&ops.preset, "preset", "", "PDF preset name, overrides the profile's")
	pdfCmd.Flags().BoolVar(&ops.viaExtendScript, "via-extendscript", false, "Export with exportPDFViaExtendScript")

	return pdfCmd
}

// options validates the flags before the path is resolved, so a bad profile
// never creates directories.
func (o *pdfOptions) options() (bridge.ExportPDFOptions, error) {
	opts, err := bridge.ExportProfile(o.profile)
	if err != nil {
		return opts, err
	}
	if o.preset != "" {
		opts.Preset = o.preset
	}
	if opts.OutputPath, err = o.resolve(export.FormatPDF); err != nil {
		return opts, err
	}
	return opts, opts.Validate()
}
