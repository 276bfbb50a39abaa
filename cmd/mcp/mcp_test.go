package mcp

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teei/idctl/internal/testutil/clitest"
	"github.com/teei/idctl/internal/testutil/fakebridge"
	"github.com/teei/idctl/pkg/bridge"
)

func newTools(t *testing.T, srv *fakebridge.Server) *tools {
	t.Helper()
	session, _ := clitest.NewSession(t, srv.URL)
	return &tools{session: session}
}

func TestServerRegistersTools(t *testing.T) {
	srv := fakebridge.New(t)
	assert.NotNil(t, newServer(newTools(t, srv)))
}

func TestPingTool(t *testing.T) {
	srv := fakebridge.New(t).Succeed(bridge.ActionPing, map[string]interface{}{"version": "1.2.0"})
	_, out, err := newTools(t, srv).Ping(context.Background(), nil, EmptyInput{})
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusSuccess, out.Status)
	assert.JSONEq(t, `{"version":"1.2.0"}`, out.Response)
}

func TestFailureIsToolError(t *testing.T) {
	srv := fakebridge.New(t).Fail(bridge.ActionGetDocumentInfo, "No document open")
	_, _, err := newTools(t, srv).DocumentInfo(context.Background(), nil, DocumentInfoInput{})
	assert.ErrorContains(t, err, "No document open")
}

func TestCreateDocumentDefaults(t *testing.T) {
	opts := createOptions(CreateDocumentInput{Pages: 4, Margin: 36})
	assert.Equal(t, bridge.LetterWidth, opts.PageWidth)
	assert.Equal(t, 4, opts.PagesPerDocument)
	assert.Equal(t, bridge.Margins{Top: 36, Bottom: 36, Left: 36, Right: 36}, opts.Margins)

	srv := fakebridge.New(t)
	_, _, err := newTools(t, srv).CreateDocument(context.Background(), nil, CreateDocumentInput{PageWidth: -5})
	assert.Error(t, err)
	assert.Empty(t, srv.Received())
}

func TestApplyColorsSwatches(t *testing.T) {
	srv := fakebridge.New(t).Succeed(bridge.ActionExecuteExtendScript, "Swatches created: 1, updated: 0")
	_, out, err := newTools(t, srv).ApplyColors(context.Background(), nil, ApplyColorsInput{Swatches: true, Only: []string{"gold"}})
	require.NoError(t, err)
	assert.Equal(t, "Swatches created: 1, updated: 0", out.Response)
	assert.Contains(t, srv.Received()[0].Options["code"], `upsert("TEEI gold"`)
}

func TestDiagnoseColorsTool(t *testing.T) {
	srv := fakebridge.New(t).Succeed(bridge.ActionDiagnoseColors, map[string]interface{}{"report": "Frame 1: sky\n"})
	_, out, err := newTools(t, srv).DiagnoseColors(context.Background(), nil, EmptyInput{})
	require.NoError(t, err)
	assert.True(t, out.Clean)
	assert.Equal(t, 1, out.Lines)
	assert.NotNil(t, out.Black)
}

func TestExportPDFTool(t *testing.T) {
	srv := fakebridge.New(t)
	tl := newTools(t, srv)
	fs := afero.NewMemMapFs()
	tl.session.Fs = fs
	srv.On(bridge.ActionExportPDF, func(cmd bridge.Command) (int, interface{}) {
		path, _ := cmd.Options["outputPath"].(string)
		_ = afero.WriteFile(fs, path, []byte("%PDF-1.7\n"), 0o644)
		return http.StatusOK, map[string]interface{}{"status": "SUCCESS"}
	})

	_, out, err := tl.ExportPDF(context.Background(), nil, ExportPDFInput{OutputPath: "brief", Profile: "digital"})
	require.NoError(t, err)
	want := filepath.Join(tl.session.Settings.ExportDir, "brief.pdf")
	require.Len(t, out.Files, 1)
	assert.Equal(t, want, out.Files[0].Path)
	assert.Equal(t, "Smallest File Size", srv.Received()[0].Options["preset"])

	// no prompt over MCP: a second export needs force
	_, _, err = tl.ExportPDF(context.Background(), nil, ExportPDFInput{OutputPath: "brief"})
	assert.ErrorContains(t, err, "already exists")
	_, _, err = tl.ExportPDF(context.Background(), nil, ExportPDFInput{OutputPath: "brief", Force: true})
	assert.NoError(t, err)
}

func TestExportPDFToolAllowedRoot(t *testing.T) {
	srv := fakebridge.New(t)
	tl := newTools(t, srv)
	tl.session.Fs = afero.NewMemMapFs()
	tl.session.Settings.AllowedRoot = tl.session.Settings.ExportDir

	_, _, err := tl.ExportPDF(context.Background(), nil, ExportPDFInput{OutputPath: "/etc/brief.pdf"})
	assert.Error(t, err)
	assert.Empty(t, srv.Received())
}

func TestExecuteExtendScriptEmpty(t *testing.T) {
	srv := fakebridge.New(t)
	_, _, err := newTools(t, srv).ExecuteExtendScript(context.Background(), nil, ExtendScriptInput{Code: ""})
	assert.ErrorContains(t, err, "empty")
}
