package bridge

import (
	"encoding/json"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/google/uuid"
)

const (
	DefaultApplication = "indesign"
	DefaultProxyURL    = "http://localhost:8013"

	StatusSuccess = "SUCCESS"
)

// Actions understood by the InDesign plugin behind the proxy.
const (
	ActionPing                       = "ping"
	ActionCreateDocument             = "createDocument"
	ActionReadDocumentInfo           = "readDocumentInfo"
	ActionGetDocumentInfo            = "getDocumentInfo"
	ActionApplyColorsViaExtendScript = "applyColorsViaExtendScript"
	ActionDiagnoseColors             = "diagnoseColors"
	ActionExportPDF                  = "exportPDF"
	ActionExportPDFViaExtendScript   = "exportPDFViaExtendScript"
	ActionExecuteExtendScript        = "executeExtendScript"
	ActionSaveDocument               = "saveDocument"
	ActionCloseDocument              = "closeDocument"
	ActionPlaceText                  = "placeText"
	ActionPlaceImage                 = "placeImage"
	ActionExportPNG                  = "exportPNG"
)

var knownActions = []string{
	ActionPing,
	ActionCreateDocument,
	ActionReadDocumentInfo,
	ActionGetDocumentInfo,
	ActionApplyColorsViaExtendScript,
	ActionDiagnoseColors,
	ActionExportPDF,
	ActionExportPDFViaExtendScript,
	ActionExecuteExtendScript,
	ActionSaveDocument,
	ActionCloseDocument,
	ActionPlaceText,
	ActionPlaceImage,
	ActionExportPNG,
}

// idempotentActions only read document state and are safe to resend.
var idempotentActions = mapset.NewSet(
	ActionPing,
	ActionReadDocumentInfo,
	ActionGetDocumentInfo,
	ActionDiagnoseColors,
)

// KnownActions returns the actions idctl knows by name, in a stable order.
func KnownActions() []string {
	out := make([]string, len(knownActions))
	copy(out, knownActions)
	return out
}

// IsKnownAction reports whether action is one of KnownActions.
func IsKnownAction(action string) bool {
	for _, a := range knownActions {
		if a == action {
			return true
		}
	}
	return false
}

// IsIdempotent reports whether resending action cannot change the document.
func IsIdempotent(action string) bool {
	return idempotentActions.Contains(action)
}

// Options is the free-form option mapping sent with a command.
type Options map[string]interface{}

// Command is a single request to the automation proxy.
type Command struct {
	ID          string  `json:"id"`
	Application string  `json:"application"`
	Action      string  `json:"action"`
	Options     Options `json:"options"`
}

// NewCommand builds a command for the default application with a fresh ID.
// A nil options map is replaced with an empty one so it never goes out as null.
func NewCommand(action string, options Options) Command {
	if options == nil {
		options = Options{}
	}
	return Command{
		ID:          uuid.NewString(),
		Application: DefaultApplication,
		Action:      action,
		Options:     options,
	}
}

func (c Command) validate() error {
	if strings.TrimSpace(c.Action) == "" {
		return fmt.Errorf("command has no action")
	}
	if strings.TrimSpace(c.Application) == "" {
		return fmt.Errorf("command %q has no application", c.Action)
	}
	return nil
}

// Response is the proxy's reply to a Command.
type Response struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// OK reports whether the bridge answered SUCCESS.
func (r *Response) OK() bool {
	return r != nil && strings.EqualFold(strings.TrimSpace(r.Status), StatusSuccess)
}

// Decode unmarshals the response payload into v. An absent payload leaves v untouched.
func (r *Response) Decode(v interface{}) error {
	if r == nil || len(r.Response) == 0 || string(r.Response) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Response, v); err != nil {
		return fmt.Errorf("cannot decode response payload: %w", err)
	}
	return nil
}

// Fields returns the payload as a mapping, or nil when it is not an object.
func (r *Response) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if err := r.Decode(&fields); err != nil {
		return nil
	}
	return fields
}

// Text returns the payload when it is a bare string, or the compact JSON otherwise.
func (r *Response) Text() string {
	if r == nil || len(r.Response) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Response, &s); err == nil {
		return s
	}
	return string(r.Response)
}

// Field returns a field of the payload as a string, if present.
func (r *Response) Field(key string) (string, bool) {
	fields := r.Fields()
	if fields == nil {
		return "", false
	}
	v, ok := fields[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Bool returns a boolean field of the payload.
func (r *Response) Bool(key string) bool {
	fields := r.Fields()
	if fields == nil {
		return false
	}
	b, _ := fields[key].(bool)
	return b
}

// Failure returns the most useful description of a failed response.
func (r *Response) Failure() string {
	if r == nil {
		return "no response"
	}
	if r.Message != "" {
		return r.Message
	}
	if text := r.Text(); text != "" {
		return text
	}
	if r.Status == "" {
		return "Unknown error"
	}
	return fmt.Sprintf("status %s", r.Status)
}
