// Package health runs the staged connection check against the automation
// proxy, the application plugin and the open document.
package health

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/teei/idctl/internal/utils"
	"github.com/teei/idctl/pkg/bridge"
	"github.com/teei/idctl/pkg/version_check"
)

// Stage names, in the order they run.
const (
	StageConfig   = "config"
	StageProxy    = "proxy"
	StagePlugin   = "plugin"
	StageDocument = "document"
)

// Target is what the check talks to. *bridge.Client satisfies it.
type Target interface {
	bridge.Sender
	BaseURL() string
	Probe(ctx context.Context) error
}

// Result is the outcome of one stage.
type Result struct {
	Stage   string            `json:"stage" yaml:"stage"`
	OK      bool              `json:"ok" yaml:"ok"`
	Error   string            `json:"error,omitempty" yaml:"error,omitempty"`
	Details map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
	Hints   []string          `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// Report collects the stages that ran. Stage is the last one, the failing
// one when the check is unhealthy.
type Report struct {
	Healthy bool     `json:"healthy" yaml:"healthy"`
	Stage   string   `json:"stage" yaml:"stage"`
	Results []Result `json:"results" yaml:"results"`
}

// Failed returns the failing stage, if any.
func (r *Report) Failed() (Result, bool) {
	for _, res := range r.Results {
		if !res.OK {
			return res, true
		}
	}
	return Result{}, false
}

// Checker runs the stages in order and stops at the first failure.
type Checker struct {
	target           Target
	checkDocument    bool
	requireDocument  bool
	minPluginVersion string
}

func NewChecker(target Target) *Checker {
	return &Checker{
		target:           target,
		checkDocument:    true,
		minPluginVersion: version_check.MinPluginVersion,
	}
}

// WithDocumentCheck enables or disables the document stage.
func (c *Checker) WithDocumentCheck(enabled bool) *Checker {
	c.checkDocument = enabled
	return c
}

// WithRequireDocument makes a missing document a failure instead of a note.
func (c *Checker) WithRequireDocument(required bool) *Checker {
	c.requireDocument = required
	if required {
		c.checkDocument = true
	}
	return c
}

// WithMinPluginVersion sets the oldest plugin version accepted at the plugin stage.
func (c *Checker) WithMinPluginVersion(v string) *Checker {
	c.minPluginVersion = v
	return c
}

// Run executes the check.
func (c *Checker) Run(ctx context.Context) *Report {
	report := &Report{}
	stages := []func(context.Context) Result{c.config, c.proxy, c.plugin}
	if c.checkDocument {
		stages = append(stages, c.document)
	}
	for _, stage := range stages {
		res := stage(ctx)
		log.Debugf("Health stage %s: ok=%v %s", res.Stage, res.OK, res.Error)
		report.Results = append(report.Results, res)
		report.Stage = res.Stage
		if !res.OK {
			return report
		}
	}
	report.Healthy = true
	return report
}

// ConfigFailed is the report of a check that could not start because the
// settings did not load.
func ConfigFailed(proxyURL string, err error) *Report {
	res := Result{
		Stage:   StageConfig,
		Error:   err.Error(),
		Details: map[string]string{"proxy_url": proxyURL},
		Hints:   hints[StageConfig],
	}
	return &Report{Stage: StageConfig, Results: []Result{res}}
}

func (c *Checker) config(context.Context) Result {
	res := Result{Stage: StageConfig, Details: map[string]string{"proxy_url": c.target.BaseURL()}}
	if !utils.IsHTTPUrl(c.target.BaseURL()) {
		res.Error = fmt.Sprintf("proxy URL %q is not an http(s) URL", c.target.BaseURL())
		res.Hints = hints[StageConfig]
		return res
	}
	res.OK = true
	return res
}

func (c *Checker) proxy(ctx context.Context) Result {
	res := Result{Stage: StageProxy}
	if err := c.target.Probe(ctx); err != nil {
		res.Error = err.Error()
		res.Hints = hints[StageProxy]
		return res
	}
	res.OK = true
	return res
}

func (c *Checker) plugin(ctx context.Context) Result {
	res := Result{Stage: StagePlugin, Details: map[string]string{}}
	resp, err := bridge.Do(ctx, c.target, bridge.ActionPing, nil)
	if err != nil {
		res.Error = describe(err)
		res.Hints = hints[StagePlugin]
		return res
	}
	if v, ok := resp.Field("version"); ok {
		res.Details["version"] = v
		if err := version_check.Check(v, c.minPluginVersion); err != nil {
			res.Error = err.Error()
			res.Hints = []string{"Update the UXP plugin to " + c.minPluginVersion + " or later and reload it"}
			return res
		}
	}
	if len(res.Details) == 0 {
		res.Details = nil
	}
	res.OK = true
	return res
}

func (c *Checker) document(ctx context.Context) Result {
	res := Result{Stage: StageDocument, Details: map[string]string{}}
	resp, err := bridge.Do(ctx, c.target, bridge.ActionGetDocumentInfo, nil)
	if err != nil {
		var se *bridge.StatusError
		if errors.As(err, &se) && !c.requireDocument {
			res.OK = true
			res.Details["note"] = "No document open: " + se.Message
			return res
		}
		res.Error = describe(err)
		res.Hints = hints[StageDocument]
		return res
	}
	for _, key := range []string{"name", "pages", "path"} {
		if v, ok := resp.Field(key); ok {
			res.Details[key] = v
		}
	}
	res.OK = true
	return res
}

func describe(err error) string {
	var se *bridge.StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

var hints = map[string][]string{
	StageConfig: {
		"Set proxy_url in ~/.config/idctl, IDCTL_PROXY_URL or --proxy-url",
	},
	StageProxy: {
		"Start the automation proxy: cd adb-mcp/adb-proxy-socket && node proxy.js",
		"Check that nothing else listens on the proxy port",
	},
	StagePlugin: {
		"Ensure InDesign is running",
		"Open the UXP Developer Tool and reload the InDesign MCP plugin",
		"Check that the plugin panel shows Connected",
	},
	StageDocument: {
		"Open a document in InDesign",
	},
}
