package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teei/idctl/pkg/bridge"
	"github.com/teei/idctl/pkg/diagnostics"
	"github.com/teei/idctl/pkg/export"
	command "github.com/teei/idctl/pkg/idctlCommand"
)

// EmptyInput is the input of tools that take no arguments.
type EmptyInput struct{}

var EmptyInputSchema, _ = jsonschema.For[EmptyInput](&jsonschema.ForOptions{})

// ReplyOutput is the proxy reply. Response holds the payload as text, JSON
// for objects.
type ReplyOutput struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Response string `json:"response"`
}

var ReplyOutputSchema, _ = jsonschema.For[ReplyOutput](&jsonschema.ForOptions{})

type DocumentInfoInput struct {
	Read bool `json:"read" jsonschema:"Use readDocumentInfo, which also reports spreads and stories"`
}

var DocumentInfoInputSchema, _ = jsonschema.For[DocumentInfoInput](&jsonschema.ForOptions{})

type CreateDocumentInput struct {
	Intent      string  `json:"intent,omitempty" jsonschema:"WEB_INTENT, PRINT_INTENT or MOBILE_INTENT"`
	PageWidth   float64 `json:"page_width,omitempty" jsonschema:"Page width in points"`
	PageHeight  float64 `json:"page_height,omitempty" jsonschema:"Page height in points"`
	Margin      float64 `json:"margin,omitempty" jsonschema:"Margin on every side in points"`
	Columns     int     `json:"columns,omitempty" jsonschema:"Number of columns"`
	Pages       int     `json:"pages,omitempty" jsonschema:"Number of pages"`
	FacingPages bool    `json:"facing_pages,omitempty" jsonschema:"Facing pages"`
}

var CreateDocumentInputSchema, _ = jsonschema.For[CreateDocumentInput](&jsonschema.ForOptions{})

type ApplyColorsInput struct {
	Swatches bool     `json:"swatches,omitempty" jsonschema:"Create or update the brand swatches instead of applying colors"`
	Only     []string `json:"only,omitempty" jsonschema:"With swatches, the swatch names to create"`
}

var ApplyColorsInputSchema, _ = jsonschema.For[ApplyColorsInput](&jsonschema.ForOptions{})

type DiagnoseOutput struct {
	Report string   `json:"report"`
	Lines  int      `json:"lines"`
	Black  []string `json:"black"`
	NoFill []string `json:"no_fill"`
	Clean  bool     `json:"clean"`
}

var DiagnoseOutputSchema, _ = jsonschema.For[DiagnoseOutput](&jsonschema.ForOptions{})

type ExportPDFInput struct {
	OutputPath      string `json:"output_path" jsonschema:"Output path; relative paths land in the export directory"`
	Profile         string `json:"profile,omitempty" jsonschema:"default, print or digital"`
	Preset          string `json:"preset,omitempty" jsonschema:"PDF preset name, overrides the profile's"`
	ViaExtendScript bool   `json:"via_extendscript,omitempty" jsonschema:"Export with exportPDFViaExtendScript"`
	Force           bool   `json:"force,omitempty" jsonschema:"Replace an existing file"`
}

var ExportPDFInputSchema, _ = jsonschema.For[ExportPDFInput](&jsonschema.ForOptions{})

type ExportOutput struct {
	Action string         `json:"action"`
	Files  []*export.File `json:"files"`
}

var ExportOutputSchema, _ = jsonschema.For[ExportOutput](&jsonschema.ForOptions{})

type ExtendScriptInput struct {
	Code string `json:"code" jsonschema:"ExtendScript code to run"`
}

var ExtendScriptInputSchema, _ = jsonschema.For[ExtendScriptInput](&jsonschema.ForOptions{})

// tools implements the tool handlers on top of the CLI session. Replies are
// never printed; stdout belongs to the transport.
type tools struct {
	session *command.Session
}

// send sends action and returns the reply as output. A non-SUCCESS reply is
// a tool error carrying the bridge message.
func (t *tools) send(ctx context.Context, action string, options bridge.Options) (*mcp.CallToolResult, ReplyOutput, error) {
	client, err := t.session.Client()
	if err != nil {
		return nil, ReplyOutput{}, err
	}
	resp, err := client.Do(ctx, action, options)
	if err != nil {
		return nil, ReplyOutput{}, err
	}
	return nil, ReplyOutput{Status: resp.Status, Message: resp.Message, Response: resp.Text()}, nil
}

func (t *tools) Ping(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ReplyOutput, error) {
	return t.send(ctx, bridge.ActionPing, nil)
}

func (t *tools) DocumentInfo(ctx context.Context, req *mcp.CallToolRequest, input DocumentInfoInput) (*mcp.CallToolResult, ReplyOutput, error) {
	if input.Read {
		return t.send(ctx, bridge.ActionReadDocumentInfo, nil)
	}
	return t.send(ctx, bridge.ActionGetDocumentInfo, nil)
}

func (t *tools) CreateDocument(ctx context.Context, req *mcp.CallToolRequest, input CreateDocumentInput) (*mcp.CallToolResult, ReplyOutput, error) {
	opts := createOptions(input)
	if err := opts.Validate(); err != nil {
		return nil, ReplyOutput{}, err
	}
	return t.send(ctx, bridge.ActionCreateDocument, opts.Options())
}

// createOptions applies input over the defaults; zero values keep the default.
func createOptions(input CreateDocumentInput) bridge.CreateDocumentOptions {
	opts := bridge.DefaultCreateDocumentOptions()
	if input.Intent != "" {
		opts.Intent = input.Intent
	}
	if input.PageWidth != 0 {
		opts.PageWidth = input.PageWidth
	}
	if input.PageHeight != 0 {
		opts.PageHeight = input.PageHeight
	}
	if input.Margin != 0 {
		opts.Margins = bridge.Margins{Top: input.Margin, Bottom: input.Margin, Left: input.Margin, Right: input.Margin}
	}
	if input.Columns != 0 {
		opts.Columns.Count = input.Columns
	}
	if input.Pages != 0 {
		opts.PagesPerDocument = input.Pages
	}
	opts.PagesFacing = input.FacingPages
	return opts
}

func (t *tools) ApplyColors(ctx context.Context, req *mcp.CallToolRequest, input ApplyColorsInput) (*mcp.CallToolResult, ReplyOutput, error) {
	if !input.Swatches {
		return t.send(ctx, bridge.ActionApplyColorsViaExtendScript, nil)
	}
	p, err := t.session.Palette()
	if err != nil {
		return nil, ReplyOutput{}, err
	}
	swatches := p.Swatches
	if len(input.Only) > 0 {
		if swatches, err = p.Select(input.Only); err != nil {
			return nil, ReplyOutput{}, err
		}
	}
	code, err := p.SwatchScript(swatches)
	if err != nil {
		return nil, ReplyOutput{}, err
	}
	return t.ExecuteExtendScript(ctx, req, ExtendScriptInput{Code: code})
}

func (t *tools) DiagnoseColors(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, DiagnoseOutput, error) {
	client, err := t.session.Client()
	if err != nil {
		return nil, DiagnoseOutput{}, err
	}
	report, err := diagnostics.Run(ctx, client)
	if err != nil {
		return nil, DiagnoseOutput{}, err
	}
	return nil, DiagnoseOutput{
		Report: report.Raw,
		Lines:  report.Lines,
		Black:  nonNil(report.Black),
		NoFill: nonNil(report.NoFill),
		Clean:  report.Clean(),
	}, nil
}

// ExportPDF resolves the path with the configured export directory and
// allowed root. There is nobody to ask, so an existing file needs force.
func (t *tools) ExportPDF(ctx context.Context, req *mcp.CallToolRequest, input ExportPDFInput) (*mcp.CallToolResult, ExportOutput, error) {
	opts, err := bridge.ExportProfile(input.Profile)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	if input.Preset != "" {
		opts.Preset = input.Preset
	}
	client, err := t.session.Client()
	if err != nil {
		return nil, ExportOutput{}, err
	}
	s := t.session.Settings
	opts.OutputPath, err = export.NewResolver(t.session.Fs, s.ExportDir, s.AllowedRoot).
		WithForce(input.Force).
		Resolve(input.OutputPath, export.FormatPDF)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	res, err := export.NewExporter(client, t.session.Fs).PDF(ctx, opts, input.ViaExtendScript)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	return nil, ExportOutput{Action: res.Action, Files: res.Files}, nil
}

func (t *tools) ExecuteExtendScript(ctx context.Context, req *mcp.CallToolRequest, input ExtendScriptInput) (*mcp.CallToolResult, ReplyOutput, error) {
	options, err := bridge.ExtendScriptOptions(input.Code)
	if err != nil {
		return nil, ReplyOutput{}, err
	}
	return t.send(ctx, bridge.ActionExecuteExtendScript, options)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
