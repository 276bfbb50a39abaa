package export

import (
	"strings"

	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/export"
)

type jpegOptions struct {
	commonOptions
	jpeg export.JPEGOptions
}

// newCmdJPEG exports every page of the active document as a JPEG
func newCmdJPEG(session *command.Session, opener Opener) *cobra.Command {
	ops := &jpegOptions{
		commonOptions: commonOptions{session: session, opener: opener},
		jpeg:          export.DefaultJPEGOptions(),
	}
	jpegCmd := &cobra.Command{
		Use:   "jpeg",
		Short: "Export every page of the active document as JPEG",
		Long: `Export every page of the active document as JPEG. A single page is
written to the given path; more pages get a _N suffix before the extension.`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ops.complete(); err != nil {
				return err
			}
			exporter, err := ops.exporter()
			if err != nil {
				return err
			}
			res, err := exporter.JPEG(cmd.Context(), ops.jpeg)
			if err != nil {
				return session.Report(err)
			}
			return ops.finish(res)
		},
	}
	ops.addFlags(jpegCmd)
	jpegCmd.Flags().StringVar(&ops.jpeg.Quality, "quality", ops.jpeg.Quality, "JPEG quality: low, medium, high or maximum")
	jpegCmd.Flags().IntVar(&ops.jpeg.Resolution, "resolution", ops.jpeg.Resolution, "Resolution in dpi")

	return jpegCmd
}

func (o *jpegOptions) complete() error {
	o.jpeg.Quality = strings.ToUpper(o.jpeg.Quality)
	if err := o.jpeg.ValidateSettings(); err != nil {
		return err
	}
	path, err := o.resolve(export.FormatJPEG)
	if err != nil {
		return err
	}
	o.jpeg.OutputPath = path
	return nil
}
