package bridge_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teei/idctl/internal/testutil/fakebridge"
	"github.com/teei/idctl/pkg/bridge"
)

func TestClientInit(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "default proxy", url: bridge.DefaultProxyURL},
		{name: "trailing slash", url: "http://localhost:8013/"},
		{name: "https", url: "https://proxy.internal:8443"},
		{name: "missing scheme", url: "localhost:8013", wantErr: true},
		{name: "unsupported scheme", url: "ws://localhost:8013", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := bridge.NewClient().WithURL(tt.url).Init()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, strings.HasSuffix(c.BaseURL(), "/"))
			assert.Equal(t, bridge.DefaultApplication, c.Application())
			assert.Equal(t, bridge.DefaultTimeout, c.Timeout())
		})
	}
}

func TestSendPingSuccess(t *testing.T) {
	srv := fakebridge.New(t).Succeed(bridge.ActionPing, map[string]interface{}{"pong": true})
	c := srv.Client(t)

	resp, err := c.Send(context.Background(), bridge.NewCommand(bridge.ActionPing, nil))
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.True(t, resp.Bool("pong"))

	received := srv.Received()
	require.Len(t, received, 1)
	assert.Equal(t, "indesign", received[0].Application)
	assert.Equal(t, bridge.ActionPing, received[0].Action)
	assert.NotEmpty(t, received[0].ID)
	assert.NotNil(t, received[0].Options, "options must never be sent as null")
}

func TestSendNonSuccessIsNotAnError(t *testing.T) {
	srv := fakebridge.New(t).Fail(bridge.ActionExportPDF, "outputPath is required")
	c := srv.Client(t)

	resp, err := c.Send(context.Background(), bridge.NewCommand(bridge.ActionExportPDF, nil))
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "outputPath is required", resp.Failure())
}

func TestDoTurnsFailureIntoStatusError(t *testing.T) {
	srv := fakebridge.New(t).Fail(bridge.ActionCreateDocument, "pageWidth must be a number")
	c := srv.Client(t)

	resp, err := c.Do(context.Background(), bridge.ActionCreateDocument, bridge.Options{"pageWidth": "wide"})
	require.Error(t, err)
	se, ok := bridge.IsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, bridge.ActionCreateDocument, se.Action)
	assert.Equal(t, "FAILURE", se.Status)
	assert.Equal(t, "pageWidth must be a number", se.Message)
	assert.Same(t, resp, se.Response)
}

func TestStatusIsCaseInsensitive(t *testing.T) {
	srv := fakebridge.New(t).On(bridge.ActionPing, func(bridge.Command) (int, interface{}) {
		return http.StatusOK, map[string]string{"status": "success"}
	})
	_, err := srv.Client(t).Do(context.Background(), bridge.ActionPing, nil)
	assert.NoError(t, err)
}

func TestErrorEnvelopeOnHTTPErrorStatus(t *testing.T) {
	srv := fakebridge.New(t).On(bridge.ActionGetDocumentInfo, func(bridge.Command) (int, interface{}) {
		return http.StatusInternalServerError, map[string]string{"status": "ERROR", "message": "No document open"}
	})
	resp, err := srv.Client(t).Send(context.Background(), bridge.NewCommand(bridge.ActionGetDocumentInfo, nil))
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "No document open", resp.Message)
}

func TestHTTPErrorWithoutEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := bridge.NewClient().WithURL(ts.URL).Init()
	require.NoError(t, err)
	_, err = c.Send(context.Background(), bridge.NewCommand(bridge.ActionPing, nil))
	var te *bridge.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
}

func TestUnreachableProxy(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := bridge.NewClient().WithURL(url).WithTimeout(2 * time.Second).Init()
	require.NoError(t, err)
	_, err = c.Send(context.Background(), bridge.NewCommand(bridge.ActionPing, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, bridge.ErrProxyUnreachable)
	assert.ErrorIs(t, c.Probe(context.Background()), bridge.ErrProxyUnreachable)
}

func slowServer(t *testing.T, calls *int32, delay time.Duration) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		if n == 1 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"SUCCESS","response":{"name":"brief.indd"}}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestIdempotentActionRetriesOnceAfterTimeout(t *testing.T) {
	var calls int32
	ts := slowServer(t, &calls, 500*time.Millisecond)

	c, err := bridge.NewClient().WithURL(ts.URL).WithTimeout(100 * time.Millisecond).Init()
	require.NoError(t, err)

	resp, err := c.Send(context.Background(), bridge.NewCommand(bridge.ActionGetDocumentInfo, nil))
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestMutatingActionNeverRetries(t *testing.T) {
	var calls int32
	ts := slowServer(t, &calls, 500*time.Millisecond)

	c, err := bridge.NewClient().WithURL(ts.URL).WithTimeout(100 * time.Millisecond).Init()
	require.NoError(t, err)

	_, err = c.Send(context.Background(), bridge.NewCommand(bridge.ActionCreateDocument, nil))
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestObserverSeesEveryExchange(t *testing.T) {
	srv := fakebridge.New(t).Succeed(bridge.ActionPing, nil)
	var seen []string
	c := srv.Client(t).WithObserver(func(cmd bridge.Command, resp *bridge.Response, err error, elapsed time.Duration) {
		seen = append(seen, cmd.Action)
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	})

	_, _ = c.Send(context.Background(), bridge.NewCommand(bridge.ActionPing, nil))
	_, _ = c.Send(context.Background(), bridge.NewCommand(bridge.ActionDiagnoseColors, nil))
	assert.Equal(t, []string{bridge.ActionPing, bridge.ActionDiagnoseColors}, seen)
}

func TestApplicationOverride(t *testing.T) {
	srv := fakebridge.New(t).Succeed(bridge.ActionPing, nil)
	c := srv.Client(t).WithApplication("illustrator")

	_, err := c.Send(context.Background(), bridge.NewCommand(bridge.ActionPing, nil))
	require.NoError(t, err)
	assert.Equal(t, "illustrator", srv.Received()[0].Application)
}

func TestSendRejectsEmptyAction(t *testing.T) {
	srv := fakebridge.New(t)
	_, err := srv.Client(t).Send(context.Background(), bridge.Command{})
	assert.Error(t, err)
	assert.Empty(t, srv.Received())
}
