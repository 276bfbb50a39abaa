package export

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/export"
	"github.com/teei/idctl/pkg/printer"
)

// Opener shows an exported file in the system viewer.
type Opener interface {
	Open(path string) error
}

type browserOpener struct{}

func (browserOpener) Open(path string) error {
	return browser.OpenFile(path)
}

// NewCmdExport implements the export command
func NewCmdExport(session *command.Session) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:               "export",
		Short:             "Export the active document as PDF or JPEG",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	exportCmd.AddCommand(newCmdPDF(session, browserOpener{}))
	exportCmd.AddCommand(newCmdJPEG(session, browserOpener{}))

	return exportCmd
}

// commonOptions are the flags every export shares.
type commonOptions struct {
	session *command.Session
	opener  Opener

	output   string
	force    bool
	open     bool
	noVerify bool
}

func (o *commonOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "file", "f", "", "Output path; relative paths land in the export directory")
	cmd.Flags().BoolVar(&o.force, "force", false, "Replace an existing file without asking")
	cmd.Flags().BoolVar(&o.open, "open", false, "Open the result in the system viewer")
	cmd.Flags().BoolVar(&o.noVerify, "no-verify", false, "Do not check the written file")
}

// resolve turns the --file value into the final output path, asking before
// an overwrite when stdin is a terminal.
func (o *commonOptions) resolve(format export.Format) (string, error) {
	if err := o.session.Load(); err != nil {
		return "", err
	}
	s := o.session.Settings
	r := export.NewResolver(o.session.Fs, s.ExportDir, s.AllowedRoot).WithForce(o.force)
	if o.session.Interactive() {
		r.WithConfirm(export.PromptOverwrite)
	}
	return r.Resolve(o.output, format)
}

func (o *commonOptions) exporter() (*export.Exporter, error) {
	client, err := o.session.Client()
	if err != nil {
		return nil, err
	}
	return export.NewExporter(client, o.session.Fs).WithVerify(!o.noVerify), nil
}

// finish prints the result and opens it when asked.
func (o *commonOptions) finish(res *export.Result) error {
	out := o.session.Out
	if format := o.session.Output(); format != printer.FormatText {
		if err := printer.Structured(out, format, res); err != nil {
			return err
		}
	} else {
		printer.OK(out, "%s: %s", res.Action, res.Summary())
		if len(res.Files) > 1 {
			for _, f := range res.Files {
				fmt.Fprintf(out, "  %s\n", f.Path)
			}
		}
	}
	if o.open && len(res.Files) > 0 {
		if err := o.opener.Open(res.Files[0].Path); err != nil {
			printer.Warn(o.session.ErrOut, "Cannot open %s: %v", res.Files[0].Path, err)
		}
	}
	return nil
}
