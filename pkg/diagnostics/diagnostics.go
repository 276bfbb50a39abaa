// Package diagnostics reads the color report produced by the diagnoseColors
// action.
package diagnostics

import (
	"context"
	"fmt"
	"strings"

	"github.com/teei/idctl/pkg/bridge"
)

const (
	markerBlack  = "BLACK"
	markerNoFill = "NO FILL"
)

// Report is a parsed diagnoseColors report.
type Report struct {
	Raw    string   `json:"report" yaml:"report"`
	Lines  int      `json:"lines" yaml:"lines"`
	Black  []string `json:"black,omitempty" yaml:"black,omitempty"`
	NoFill []string `json:"noFill,omitempty" yaml:"noFill,omitempty"`
}

// Parse counts the non-empty lines of raw and collects the lines flagged
// BLACK or NO FILL. A line carrying both markers is counted under each.
func Parse(raw string) *Report {
	r := &Report{Raw: raw}
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.Lines++
		upper := strings.ToUpper(line)
		if strings.Contains(upper, markerBlack) {
			r.Black = append(r.Black, line)
		}
		if strings.Contains(upper, markerNoFill) {
			r.NoFill = append(r.NoFill, line)
		}
	}
	return r
}

// Clean reports whether no line was flagged.
func (r *Report) Clean() bool {
	return len(r.Black) == 0 && len(r.NoFill) == 0
}

// Summary is a one-line count of the findings.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d lines, %d BLACK, %d NO FILL", r.Lines, len(r.Black), len(r.NoFill))
}

// Run sends diagnoseColors and parses the report field of the reply.
func Run(ctx context.Context, s bridge.Sender) (*Report, error) {
	resp, err := bridge.Do(ctx, s, bridge.ActionDiagnoseColors, nil)
	if err != nil {
		return nil, err
	}
	raw, ok := resp.Field("report")
	if !ok {
		return nil, fmt.Errorf("%s reply has no report", bridge.ActionDiagnoseColors)
	}
	return Parse(raw), nil
}
