package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teei/idctl/internal/testutil/fakebridge"
)

func stages(r *Report) []string {
	var out []string
	for _, res := range r.Results {
		out = append(out, res.Stage)
	}
	return out
}

func TestHealthyWithDocument(t *testing.T) {
	srv := fakebridge.New(t).
		Succeed("ping", map[string]interface{}{"version": "1.2.0"}).
		Succeed("getDocumentInfo", map[string]interface{}{"name": "TEEI_AWS_Brief.indd", "pages": 2})

	report := NewChecker(srv.Client(t)).Run(context.Background())

	require.True(t, report.Healthy)
	assert.Equal(t, []string{StageConfig, StageProxy, StagePlugin, StageDocument}, stages(report))
	assert.Equal(t, StageDocument, report.Stage)
	doc := report.Results[3]
	assert.Equal(t, "TEEI_AWS_Brief.indd", doc.Details["name"])
	assert.Equal(t, "2", doc.Details["pages"])
	assert.Equal(t, "1.2.0", report.Results[2].Details["version"])
	assert.Equal(t, []string{"ping", "getDocumentInfo"}, srv.Actions())
}

func TestHealthyWithoutDocument(t *testing.T) {
	srv := fakebridge.New(t).
		Succeed("ping", nil).
		Fail("getDocumentInfo", "No document open")

	report := NewChecker(srv.Client(t)).Run(context.Background())

	require.True(t, report.Healthy)
	assert.Contains(t, report.Results[3].Details["note"], "No document open")
	_, failed := report.Failed()
	assert.False(t, failed)
}

func TestRequireDocument(t *testing.T) {
	srv := fakebridge.New(t).
		Succeed("ping", nil).
		Fail("getDocumentInfo", "No document open")

	report := NewChecker(srv.Client(t)).WithRequireDocument(true).Run(context.Background())

	require.False(t, report.Healthy)
	res, failed := report.Failed()
	require.True(t, failed)
	assert.Equal(t, StageDocument, res.Stage)
	assert.Equal(t, "No document open", res.Error)
	assert.NotEmpty(t, res.Hints)
}

func TestSkipDocumentStage(t *testing.T) {
	srv := fakebridge.New(t).Succeed("ping", nil)

	report := NewChecker(srv.Client(t)).WithDocumentCheck(false).Run(context.Background())

	require.True(t, report.Healthy)
	assert.Equal(t, StagePlugin, report.Stage)
	assert.Equal(t, []string{"ping"}, srv.Actions())
}

func TestPluginNotConnected(t *testing.T) {
	srv := fakebridge.New(t).Fail("ping", "InDesign plugin not connected")

	report := NewChecker(srv.Client(t)).Run(context.Background())

	require.False(t, report.Healthy)
	assert.Equal(t, StagePlugin, report.Stage)
	res, _ := report.Failed()
	assert.Equal(t, "InDesign plugin not connected", res.Error)
	assert.Len(t, report.Results, 3)
}

func TestOutdatedPlugin(t *testing.T) {
	srv := fakebridge.New(t).Succeed("ping", map[string]interface{}{"version": "0.4.0"})

	report := NewChecker(srv.Client(t)).WithMinPluginVersion("1.0.0").Run(context.Background())

	require.False(t, report.Healthy)
	res, _ := report.Failed()
	assert.Equal(t, StagePlugin, res.Stage)
	assert.Contains(t, res.Error, "older than")
}

func TestProxyDown(t *testing.T) {
	srv := fakebridge.New(t)
	client := srv.Client(t)
	srv.Close()

	report := NewChecker(client).Run(context.Background())

	require.False(t, report.Healthy)
	assert.Equal(t, StageProxy, report.Stage)
	res, _ := report.Failed()
	assert.Contains(t, res.Error, "unreachable")
	assert.NotEmpty(t, res.Hints)
}

func TestConfigFailed(t *testing.T) {
	report := ConfigFailed("localhost:8013", errors.New(`proxy_url "localhost:8013" is not an http(s) URL`))

	assert.False(t, report.Healthy)
	assert.Equal(t, StageConfig, report.Stage)
	res, failed := report.Failed()
	require.True(t, failed)
	assert.Contains(t, res.Error, "not an http(s) URL")
	assert.Equal(t, "localhost:8013", res.Details["proxy_url"])
	assert.NotEmpty(t, res.Hints)
}
