// Package export drives PDF and JPEG exports of the active document and
// checks what they wrote.
package export

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/teei/idctl/pkg/bridge"
)

// Result is what an export produced.
type Result struct {
	Action   string           `json:"action" yaml:"action"`
	Files    []*File          `json:"files" yaml:"files"`
	Response *bridge.Response `json:"-" yaml:"-"`
}

// Exporter sends export commands and verifies their output.
type Exporter struct {
	sender   bridge.Sender
	verifier *Verifier
	verify   bool
}

func NewExporter(sender bridge.Sender, fs afero.Fs) *Exporter {
	return &Exporter{sender: sender, verifier: NewVerifier(fs), verify: true}
}

// WithVerify turns output verification on or off.
func (e *Exporter) WithVerify(verify bool) *Exporter {
	e.verify = verify
	return e
}

// WithVerifier replaces the verifier.
func (e *Exporter) WithVerifier(v *Verifier) *Exporter {
	e.verifier = v
	return e
}

// PDF exports the active document through exportPDF, or through
// exportPDFViaExtendScript when viaExtendScript is set. opts.OutputPath must
// already be resolved.
func (e *Exporter) PDF(ctx context.Context, opts bridge.ExportPDFOptions, viaExtendScript bool) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	action, options := bridge.ActionExportPDF, opts.Options()
	if viaExtendScript {
		action, options = bridge.ActionExportPDFViaExtendScript, opts.ExtendScriptOptions()
	}
	log.Debugf("Exporting PDF to %s with preset %q", opts.OutputPath, opts.Preset)

	resp, err := bridge.Do(ctx, e.sender, action, options)
	if err != nil {
		return nil, err
	}
	res := &Result{Action: action, Response: resp}
	if !e.verify {
		res.Files = []*File{{Path: opts.OutputPath}}
		return res, nil
	}
	f, err := e.verifier.PDF(opts.OutputPath)
	if err != nil {
		return nil, err
	}
	res.Files = []*File{f}
	return res, nil
}

// JPEG exports every page of the active document as a JPEG through an
// ExtendScript program.
func (e *Exporter) JPEG(ctx context.Context, opts JPEGOptions) (*Result, error) {
	code, err := opts.Script()
	if err != nil {
		return nil, err
	}
	options, err := bridge.ExtendScriptOptions(code)
	if err != nil {
		return nil, err
	}
	log.Debugf("Exporting JPEG pages to %s", opts.OutputPath)

	resp, err := bridge.Do(ctx, e.sender, bridge.ActionExecuteExtendScript, options)
	if err != nil {
		return nil, err
	}
	res := &Result{Action: bridge.ActionExecuteExtendScript, Response: resp}

	paths := writtenPaths(resp)
	if len(paths) == 0 {
		paths = opts.PagePaths(1)
	}
	for _, p := range paths {
		if !e.verify {
			res.Files = append(res.Files, &File{Path: p})
			continue
		}
		f, err := e.verifier.JPEG(p)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, f)
	}
	return res, nil
}

func writtenPaths(resp *bridge.Response) []string {
	var text string
	if resp.Fields() != nil {
		text, _ = resp.Field("result")
	} else {
		text = resp.Text()
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Summary is a one-line description of the result.
func (r *Result) Summary() string {
	switch len(r.Files) {
	case 0:
		return "nothing written"
	case 1:
		f := r.Files[0]
		if f.Pages > 0 {
			return fmt.Sprintf("%s (%d bytes, %d pages)", f.Path, f.Size, f.Pages)
		}
		if f.Size > 0 {
			return fmt.Sprintf("%s (%d bytes)", f.Path, f.Size)
		}
		return f.Path
	default:
		return fmt.Sprintf("%d files, first %s", len(r.Files), r.Files[0].Path)
	}
}
