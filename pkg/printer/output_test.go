package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teei/idctl/pkg/bridge"
)

func init() {
	color.NoColor = true
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"", "json", "yaml"} {
		assert.NoError(t, ValidateFormat(f))
	}
	assert.Error(t, ValidateFormat("xml"))
}

func TestResponseText(t *testing.T) {
	resp := &bridge.Response{
		Status:   "SUCCESS",
		Response: json.RawMessage(`{"name":"TEEI_AWS_Brief.indd","pages":2,"saved":false}`),
	}
	buf := &bytes.Buffer{}
	require.NoError(t, Response(buf, FormatText, "getDocumentInfo", resp))

	out := buf.String()
	assert.Contains(t, out, "[OK] getDocumentInfo")
	assert.Contains(t, out, "name:")
	assert.Contains(t, out, "TEEI_AWS_Brief.indd")
	assert.Contains(t, out, "pages:")
	assert.Contains(t, out, "2\n")
	assert.Contains(t, out, "false")
}

func TestResponseTextFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Response(buf, FormatText, "exportPDF", &bridge.Response{Status: "FAILURE", Message: "No document open"}))
	assert.Equal(t, "[FAILED] exportPDF: No document open\n", buf.String())
}

func TestResponseStringPayload(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Response(buf, FormatText, "executeExtendScript", &bridge.Response{Status: "SUCCESS", Response: json.RawMessage(`"Saved"`)}))
	assert.Equal(t, "[OK] executeExtendScript\nSaved\n", buf.String())
}

func TestResponseJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	resp := &bridge.Response{Status: "SUCCESS", Response: json.RawMessage(`{"success":true}`)}
	require.NoError(t, Response(buf, FormatJSON, "applyColorsViaExtendScript", resp))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "SUCCESS", got["status"])
	assert.Equal(t, map[string]interface{}{"success": true}, got["response"])
	assert.NotContains(t, got, "message")
}

func TestResponseYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	resp := &bridge.Response{Status: "FAILURE", Message: "bad preset"}
	require.NoError(t, Response(buf, FormatYAML, "exportPDF", resp))
	assert.Equal(t, "status: FAILURE\nmessage: bad preset\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "-", formatValue(nil))
	assert.Equal(t, "3", formatValue(3.0))
	assert.Equal(t, "2.5", formatValue(2.5))
	assert.Equal(t, `{"a":1}`, formatValue(map[string]interface{}{"a": 1}))
	assert.Equal(t, "true", formatValue(true))
}
