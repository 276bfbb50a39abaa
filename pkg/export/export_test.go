package export

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teei/idctl/internal/testutil/fakebridge"
	"github.com/teei/idctl/internal/utils"
	"github.com/teei/idctl/pkg/bridge"
)

const minimalPDF = "%PDF-1.4\n%fake body\n%%EOF\n"

func TestFixExtension(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		want   string
	}{
		{"/out/brief", FormatPDF, "/out/brief.pdf"},
		{"/out/brief.pdf", FormatPDF, "/out/brief.pdf"},
		{"/out/brief.PDF", FormatPDF, "/out/brief.PDF"},
		{"/out/brief.docx", FormatPDF, "/out/brief.pdf"},
		{"/out/brief.pdf", FormatJPEG, "/out/brief.jpg"},
		{"/out/brief.jpeg", FormatJPEG, "/out/brief.jpeg"},
		{"/out/brief", FormatJPEG, "/out/brief.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FixExtension(tt.path, tt.format), tt.path)
	}
}

func TestResolve(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := NewResolver(fs, "/work/exports", "")

	got, err := r.Resolve("reports/brief", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "/work/exports/reports/brief.pdf", got)
	assert.True(t, utils.FolderExists(fs, "/work/exports/reports"))

	got, err = r.Resolve("", FormatJPEG)
	require.NoError(t, err)
	assert.Equal(t, "/work/exports/document.jpg", got)

	got, err = r.Resolve("/tmp/final.pdf", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/final.pdf", got)
}

func TestResolveHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := NewResolver(afero.NewMemMapFs(), "/work", "").Resolve("~/Downloads/brief", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Downloads", "brief.pdf"), got)
}

func TestResolveAllowedRoot(t *testing.T) {
	r := NewResolver(afero.NewMemMapFs(), "/work/exports", "/work")

	_, err := r.Resolve("../../etc/brief", FormatPDF)
	var outside utils.OutsideRootError
	require.ErrorAs(t, err, &outside)
	assert.Equal(t, "/work", outside.Root)

	got, err := r.Resolve("../brief", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "/work/brief.pdf", got)
}

func TestResolveOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	existing := func() {
		require.NoError(t, afero.WriteFile(fs, "/out/brief.pdf", []byte(minimalPDF), 0o644))
	}
	existing()

	_, err := NewResolver(fs, "/out", "").Resolve("brief", FormatPDF)
	assert.ErrorContains(t, err, "--force")
	assert.True(t, utils.FileExists(fs, "/out/brief.pdf"))

	asked := ""
	_, err = NewResolver(fs, "/out", "").
		WithConfirm(func(p string) (bool, error) { asked = p; return false, nil }).
		Resolve("brief", FormatPDF)
	assert.ErrorIs(t, err, ErrOverwriteDeclined)
	assert.Equal(t, "/out/brief.pdf", asked)
	assert.True(t, utils.FileExists(fs, "/out/brief.pdf"))

	_, err = NewResolver(fs, "/out", "").
		WithConfirm(func(string) (bool, error) { return true, nil }).
		Resolve("brief", FormatPDF)
	assert.NoError(t, err)
	assert.False(t, utils.FileExists(fs, "/out/brief.pdf"))

	existing()
	_, err = NewResolver(fs, "/out", "").WithForce(true).Resolve("brief", FormatPDF)
	assert.NoError(t, err)
	assert.False(t, utils.FileExists(fs, "/out/brief.pdf"))
}

func TestForcedExportWithoutWriteFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/brief.pdf", []byte(minimalPDF), 0o644))
	srv := fakebridge.New(t).Succeed(bridge.ActionExportPDF, map[string]interface{}{"outputPath": "/out/brief.pdf"})

	opts, _ := bridge.ExportProfile("")
	path, err := NewResolver(fs, "/out", "").WithForce(true).Resolve("brief", FormatPDF)
	require.NoError(t, err)
	opts.OutputPath = path

	_, err = NewExporter(srv.Client(t), fs).PDF(context.Background(), opts, false)
	assert.ErrorContains(t, err, "was not written")
}

func TestVerifyPDF(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/ok.pdf", []byte(minimalPDF), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/empty.pdf", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/text.pdf", []byte("hello"), 0o644))

	v := NewVerifier(fs).WithPageCounter(func([]byte) (int, error) { return 4, nil })

	f, err := v.PDF("/out/ok.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(len(minimalPDF)), f.Size)
	assert.Equal(t, 4, f.Pages)

	_, err = v.PDF("/out/missing.pdf")
	assert.ErrorContains(t, err, "was not written")
	_, err = v.PDF("/out/empty.pdf")
	assert.ErrorContains(t, err, "is empty")
	_, err = v.PDF("/out/text.pdf")
	assert.ErrorContains(t, err, "not a PDF")
}

func TestVerifyPDFUnreadablePageCount(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/ok.pdf", []byte(minimalPDF), 0o644))

	f, err := NewVerifier(fs).PDF("/out/ok.pdf")
	require.NoError(t, err)
	assert.Zero(t, f.Pages)
}

func TestCountPagesWithoutTrailer(t *testing.T) {
	_, err := CountPages([]byte(minimalPDF))
	assert.ErrorIs(t, err, ErrNoTrailer)

	truncated := "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\nstartxref\n"
	_, err = CountPages([]byte(truncated))
	assert.ErrorIs(t, err, ErrNoTrailer)
}

func TestCheckTrailer(t *testing.T) {
	assert.NoError(t, checkTrailer([]byte("%PDF-1.4\nxref\ntrailer\nstartxref\n116\n%%EOF\n")))

	padded := "%PDF-1.4\nstartxref\n9\n%%EOF\n" + strings.Repeat(" ", trailerWindow) + "x"
	assert.ErrorIs(t, checkTrailer([]byte(padded)), ErrNoTrailer)
}

func TestCountWithinTimesOut(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	stuck := func([]byte) (int, error) {
		<-release
		return 3, nil
	}

	start := time.Now()
	_, err := countWithin([]byte("%PDF-"), 20*time.Millisecond, stuck)
	assert.ErrorIs(t, err, ErrPageCountTimeout)
	assert.Less(t, time.Since(start), time.Second)

	pages, err := countWithin([]byte("%PDF-"), time.Second, func([]byte) (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func writeOnExport(fs afero.Fs, content string) fakebridge.Handler {
	return func(cmd bridge.Command) (int, interface{}) {
		path, _ := cmd.Options["outputPath"].(string)
		_ = afero.WriteFile(fs, path, []byte(content), 0o644)
		return http.StatusOK, map[string]interface{}{"status": "SUCCESS", "response": map[string]interface{}{"outputPath": path}}
	}
}

func TestExportPDF(t *testing.T) {
	fs := afero.NewMemMapFs()
	srv := fakebridge.New(t).On(bridge.ActionExportPDF, writeOnExport(fs, minimalPDF))

	opts, err := bridge.ExportProfile(bridge.ProfilePrint)
	require.NoError(t, err)
	opts.OutputPath = "/out/brief.pdf"

	e := NewExporter(srv.Client(t), fs).WithVerifier(NewVerifier(fs).WithPageCounter(func([]byte) (int, error) { return 2, nil }))
	res, err := e.PDF(context.Background(), opts, false)
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, 2, res.Files[0].Pages)
	assert.Equal(t, "/out/brief.pdf ("+strconv.Itoa(len(minimalPDF))+" bytes, 2 pages)", res.Summary())

	sent := srv.Received()[0]
	assert.Equal(t, "PDF/X-4:2010", sent.Options["preset"])
	assert.Equal(t, true, sent.Options["includeBleed"])
}

func TestExportPDFViaExtendScript(t *testing.T) {
	fs := afero.NewMemMapFs()
	srv := fakebridge.New(t).On(bridge.ActionExportPDFViaExtendScript, writeOnExport(fs, minimalPDF))

	opts, _ := bridge.ExportProfile("")
	opts.OutputPath = "/out/brief.pdf"

	_, err := NewExporter(srv.Client(t), fs).PDF(context.Background(), opts, true)
	require.NoError(t, err)
	assert.Equal(t, "[High Quality Print]", srv.Received()[0].Options["preset"])
}

func TestExportPDFSuccessWithoutFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	srv := fakebridge.New(t).Succeed(bridge.ActionExportPDF, map[string]interface{}{"outputPath": "/out/brief.pdf"})

	opts, _ := bridge.ExportProfile("")
	opts.OutputPath = "/out/brief.pdf"

	_, err := NewExporter(srv.Client(t), fs).PDF(context.Background(), opts, false)
	assert.ErrorContains(t, err, "was not written")

	res, err := NewExporter(srv.Client(t), fs).WithVerify(false).PDF(context.Background(), opts, false)
	require.NoError(t, err)
	assert.Equal(t, "/out/brief.pdf", res.Summary())
}

func TestExportPDFFailureStatus(t *testing.T) {
	srv := fakebridge.New(t).Fail(bridge.ActionExportPDF, "Invalid preset")

	opts, _ := bridge.ExportProfile("")
	opts.OutputPath = "/out/brief.pdf"

	_, err := NewExporter(srv.Client(t), afero.NewMemMapFs()).PDF(context.Background(), opts, false)
	se, ok := bridge.IsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid preset", se.Message)
}

func TestExportJPEG(t *testing.T) {
	fs := afero.NewMemMapFs()
	jpeg := string([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00})
	srv := fakebridge.New(t).On(bridge.ActionExecuteExtendScript, func(cmd bridge.Command) (int, interface{}) {
		code, _ := cmd.Options["code"].(string)
		if !strings.Contains(code, "JPEGOptionsQuality.HIGH") {
			return http.StatusOK, map[string]interface{}{"status": "FAILURE", "message": "unexpected script"}
		}
		for _, p := range []string{"/out/brief_1.jpg", "/out/brief_2.jpg"} {
			_ = afero.WriteFile(fs, p, []byte(jpeg), 0o644)
		}
		return http.StatusOK, map[string]interface{}{"status": "SUCCESS", "response": "/out/brief_1.jpg\n/out/brief_2.jpg"}
	})

	opts := DefaultJPEGOptions()
	opts.OutputPath = "/out/brief.jpg"
	opts.Quality = "high"

	res, err := NewExporter(srv.Client(t), fs).JPEG(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Equal(t, "/out/brief_2.jpg", res.Files[1].Path)
	assert.Equal(t, "2 files, first /out/brief_1.jpg", res.Summary())
}

func TestJPEGScript(t *testing.T) {
	opts := JPEGOptions{OutputPath: "/out/brief.jpg", Quality: "maximum", Resolution: 150}
	code, err := opts.Script()
	require.NoError(t, err)
	assert.Contains(t, code, "JPEGOptionsQuality.MAXIMUM")
	assert.Contains(t, code, "exportResolution = 150;")
	assert.Contains(t, code, `"/out/brief_" + (i + 1) + ".jpg"`)

	assert.Equal(t, []string{"/out/brief.jpg"}, opts.PagePaths(1))
	assert.Equal(t, []string{"/out/brief_1.jpg", "/out/brief_2.jpg"}, opts.PagePaths(2))

	for _, bad := range []JPEGOptions{
		{OutputPath: "", Quality: "high", Resolution: 300},
		{OutputPath: "/a.jpg", Quality: "ultra", Resolution: 300},
		{OutputPath: "/a.jpg", Quality: "high", Resolution: 10},
	} {
		_, err := bad.Script()
		assert.Error(t, err)
	}
}
