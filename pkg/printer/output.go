package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/teei/idctl/pkg/bridge"
)

const (
	FormatText = ""
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateFormat accepts the values of the global -o flag.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("invalid output format %q: valid formats are ['', 'json', 'yaml']", format)
}

// envelope is the response as it is re-emitted for -o json|yaml.
type envelope struct {
	Status   string      `json:"status" yaml:"status"`
	Response interface{} `json:"response,omitempty" yaml:"response,omitempty"`
	Message  string      `json:"message,omitempty" yaml:"message,omitempty"`
}

func toEnvelope(resp *bridge.Response) envelope {
	env := envelope{Status: resp.Status, Message: resp.Message}
	if len(resp.Response) > 0 {
		var payload interface{}
		if err := json.Unmarshal(resp.Response, &payload); err == nil {
			env.Response = payload
		} else {
			env.Response = string(resp.Response)
		}
	}
	return env
}

// Structured writes v as indented JSON or YAML.
func Structured(o io.Writer, format string, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(o)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(o)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("format %q is not structured", format)
}

// Response prints a bridge reply. Text mode prints a status line followed by
// the payload fields; json and yaml re-emit the envelope.
func Response(o io.Writer, format, action string, resp *bridge.Response) error {
	if format != FormatText {
		return Structured(o, format, toEnvelope(resp))
	}
	if resp.OK() {
		OK(o, "%s", action)
	} else {
		Fail(o, "%s: %s", action, resp.Failure())
		return nil
	}
	Payload(o, resp)
	return nil
}

// Payload prints the response field as key/value rows, or as text.
func Payload(o io.Writer, resp *bridge.Response) {
	fields := resp.Fields()
	if len(fields) == 0 {
		if text := resp.Text(); text != "" && text != "{}" && text != "null" {
			fmt.Fprintln(o, text)
		}
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := NewTablePrinter(o, 0, 8, 2, ' ')
	for _, k := range keys {
		p.AddRow([]string{"  " + k + ":", formatValue(fields[k])})
	}
	_ = p.Flush()
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case map[string]interface{}, []interface{}:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	default:
		return fmt.Sprint(t)
	}
}
