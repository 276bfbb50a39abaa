package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCreateDocumentOptions(t *testing.T) {
	o := DefaultCreateDocumentOptions()
	require.NoError(t, o.Validate())

	opts := o.Options()
	assert.Equal(t, IntentWeb, opts["intent"])
	assert.Equal(t, 612.0, opts["pageWidth"])
	assert.Equal(t, 792.0, opts["pageHeight"])
	assert.Equal(t, 1, opts["pagesPerDocument"])
	assert.Equal(t, false, opts["pagesFacing"])
	assert.Equal(t, map[string]interface{}{"count": 1, "gutter": 12.0}, opts["columns"])
}

func TestCreateDocumentOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *CreateDocumentOptions)
	}{
		{"zero width", func(o *CreateDocumentOptions) { o.PageWidth = 0 }},
		{"negative height", func(o *CreateDocumentOptions) { o.PageHeight = -1 }},
		{"unknown intent", func(o *CreateDocumentOptions) { o.Intent = "POSTER" }},
		{"margins swallow page", func(o *CreateDocumentOptions) { o.Margins.Left, o.Margins.Right = 306, 306 }},
		{"negative margin", func(o *CreateDocumentOptions) { o.Margins.Top = -5 }},
		{"no columns", func(o *CreateDocumentOptions) { o.Columns.Count = 0 }},
		{"no pages", func(o *CreateDocumentOptions) { o.PagesPerDocument = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultCreateDocumentOptions()
			tt.mutate(&o)
			assert.Error(t, o.Validate())
		})
	}
}

func TestExportProfiles(t *testing.T) {
	def, err := ExportProfile("")
	require.NoError(t, err)
	assert.Equal(t, "High Quality Print", def.Preset)

	printProfile, err := ExportProfile("PRINT")
	require.NoError(t, err)
	printProfile.OutputPath = "/tmp/brief.pdf"
	assert.Equal(t, Options{
		"outputPath":       "/tmp/brief.pdf",
		"preset":           "PDF/X-4:2010",
		"includeBleed":     true,
		"includeCropMarks": true,
		"colorSpace":       "CMYK",
		"resolution":       300,
	}, printProfile.Options())

	digital, err := ExportProfile("digital")
	require.NoError(t, err)
	assert.Equal(t, "Smallest File Size", digital.Preset)
	assert.Equal(t, 150, digital.Resolution)

	_, err = ExportProfile("poster")
	assert.Error(t, err)
}

func TestExportPDFOptionsValidate(t *testing.T) {
	o, _ := ExportProfile(ProfileDefault)
	assert.Error(t, o.Validate(), "missing output path")
	o.OutputPath = "out.pdf"
	assert.NoError(t, o.Validate())
	o.Preset = " "
	assert.Error(t, o.Validate())
}

func TestBracketPreset(t *testing.T) {
	assert.Equal(t, "[High Quality Print]", BracketPreset("High Quality Print"))
	assert.Equal(t, "[PDF/X-4:2010]", BracketPreset("[PDF/X-4:2010]"))

	o := ExportPDFOptions{OutputPath: "a.pdf", Preset: "Smallest File Size"}
	assert.Equal(t, Options{"outputPath": "a.pdf", "preset": "[Smallest File Size]"}, o.ExtendScriptOptions())
}

func TestExtendScriptOptions(t *testing.T) {
	_, err := ExtendScriptOptions("  \n")
	assert.Error(t, err)

	opts, err := ExtendScriptOptions("app.activeDocument.name")
	require.NoError(t, err)
	assert.Equal(t, "app.activeDocument.name", opts["code"])
}

func TestNewCommandNeverSendsNullOptions(t *testing.T) {
	raw, err := json.Marshal(NewCommand(ActionPing, nil))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"options":{}`)
}

func TestResponseAccessors(t *testing.T) {
	r := &Response{Status: "SUCCESS", Response: json.RawMessage(`{"report":"PAGE 1","success":true,"pages":3}`)}
	assert.True(t, r.OK())
	report, ok := r.Field("report")
	assert.True(t, ok)
	assert.Equal(t, "PAGE 1", report)
	pages, ok := r.Field("pages")
	assert.True(t, ok)
	assert.Equal(t, "3", pages)
	assert.True(t, r.Bool("success"))
	_, ok = r.Field("missing")
	assert.False(t, ok)

	s := &Response{Status: "SUCCESS", Response: json.RawMessage(`"Exported 3 pages"`)}
	assert.Equal(t, "Exported 3 pages", s.Text())
	assert.Nil(t, s.Fields())

	var nilResp *Response
	assert.False(t, nilResp.OK())
	assert.Equal(t, "no response", nilResp.Failure())
	assert.Equal(t, "Unknown error", (&Response{}).Failure())
}

func TestKnownActions(t *testing.T) {
	for _, a := range []string{"ping", "createDocument", "readDocumentInfo", "getDocumentInfo",
		"applyColorsViaExtendScript", "diagnoseColors", "exportPDF", "exportPDFViaExtendScript", "executeExtendScript"} {
		assert.True(t, IsKnownAction(a), a)
	}
	assert.False(t, IsKnownAction("formatHardDrive"))
	assert.True(t, IsIdempotent(ActionDiagnoseColors))
	assert.False(t, IsIdempotent(ActionExportPDF))

	actions := KnownActions()
	actions[0] = "mutated"
	assert.Equal(t, ActionPing, KnownActions()[0])
}
