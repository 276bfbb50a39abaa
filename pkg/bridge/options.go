package bridge

import (
	"fmt"
	"strings"
)

// Document intents accepted by createDocument.
const (
	IntentWeb    = "WEB_INTENT"
	IntentPrint  = "PRINT_INTENT"
	IntentMobile = "MOBILE_INTENT"
)

// US Letter in points.
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

type Columns struct {
	Count  int     `json:"count"`
	Gutter float64 `json:"gutter"`
}

// CreateDocumentOptions mirrors the option mapping of createDocument.
type CreateDocumentOptions struct {
	Intent           string
	PageWidth        float64
	PageHeight       float64
	Margins          Margins
	Columns          Columns
	PagesPerDocument int
	PagesFacing      bool
}

// DefaultCreateDocumentOptions is a single non-facing Letter page with one-inch margins.
func DefaultCreateDocumentOptions() CreateDocumentOptions {
	return CreateDocumentOptions{
		Intent:           IntentWeb,
		PageWidth:        LetterWidth,
		PageHeight:       LetterHeight,
		Margins:          Margins{Top: 72, Bottom: 72, Left: 72, Right: 72},
		Columns:          Columns{Count: 1, Gutter: 12},
		PagesPerDocument: 1,
		PagesFacing:      false,
	}
}

func (o CreateDocumentOptions) Validate() error {
	switch o.Intent {
	case IntentWeb, IntentPrint, IntentMobile:
	default:
		return fmt.Errorf("invalid intent %q: must be one of %s, %s, %s", o.Intent, IntentWeb, IntentPrint, IntentMobile)
	}
	if o.PageWidth <= 0 || o.PageHeight <= 0 {
		return fmt.Errorf("page size must be positive, got %gx%g", o.PageWidth, o.PageHeight)
	}
	m := o.Margins
	if m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 {
		return fmt.Errorf("margins cannot be negative")
	}
	if m.Left+m.Right >= o.PageWidth || m.Top+m.Bottom >= o.PageHeight {
		return fmt.Errorf("margins leave no live area on a %gx%g page", o.PageWidth, o.PageHeight)
	}
	if o.Columns.Count < 1 {
		return fmt.Errorf("column count must be at least 1, got %d", o.Columns.Count)
	}
	if o.Columns.Gutter < 0 {
		return fmt.Errorf("column gutter cannot be negative")
	}
	if o.PagesPerDocument < 1 {
		return fmt.Errorf("pages per document must be at least 1, got %d", o.PagesPerDocument)
	}
	return nil
}

func (o CreateDocumentOptions) Options() Options {
	return Options{
		"intent":     o.Intent,
		"pageWidth":  o.PageWidth,
		"pageHeight": o.PageHeight,
		"margins": map[string]interface{}{
			"top":    o.Margins.Top,
			"bottom": o.Margins.Bottom,
			"left":   o.Margins.Left,
			"right":  o.Margins.Right,
		},
		"columns": map[string]interface{}{
			"count":  o.Columns.Count,
			"gutter": o.Columns.Gutter,
		},
		"pagesPerDocument": o.PagesPerDocument,
		"pagesFacing":      o.PagesFacing,
	}
}

// PDF export profiles.
const (
	ProfileDefault = "default"
	ProfilePrint   = "print"
	ProfileDigital = "digital"
)

// ExportPDFOptions mirrors the option mapping of exportPDF.
type ExportPDFOptions struct {
	OutputPath       string
	Preset           string
	IncludeBleed     bool
	IncludeCropMarks bool
	ColorSpace       string
	Resolution       int
}

// ExportProfile returns the settings for a named profile.
func ExportProfile(name string) (ExportPDFOptions, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProfileDefault:
		return ExportPDFOptions{Preset: "High Quality Print"}, nil
	case ProfilePrint:
		return ExportPDFOptions{
			Preset:           "PDF/X-4:2010",
			IncludeBleed:     true,
			IncludeCropMarks: true,
			ColorSpace:       "CMYK",
			Resolution:       300,
		}, nil
	case ProfileDigital:
		return ExportPDFOptions{
			Preset:     "Smallest File Size",
			ColorSpace: "RGB",
			Resolution: 150,
		}, nil
	default:
		return ExportPDFOptions{}, fmt.Errorf("unknown export profile %q: must be one of %s, %s, %s", name, ProfileDefault, ProfilePrint, ProfileDigital)
	}
}

func (o ExportPDFOptions) Validate() error {
	if strings.TrimSpace(o.OutputPath) == "" {
		return fmt.Errorf("export needs an output path")
	}
	if strings.TrimSpace(o.Preset) == "" {
		return fmt.Errorf("export needs a preset")
	}
	if o.Resolution < 0 {
		return fmt.Errorf("resolution cannot be negative")
	}
	return nil
}

// Options renders the exportPDF mapping. Only settings the profile sets are sent.
func (o ExportPDFOptions) Options() Options {
	opts := Options{
		"outputPath": o.OutputPath,
		"preset":     o.Preset,
	}
	if o.IncludeBleed {
		opts["includeBleed"] = true
	}
	if o.IncludeCropMarks {
		opts["includeCropMarks"] = true
	}
	if o.ColorSpace != "" {
		opts["colorSpace"] = o.ColorSpace
	}
	if o.Resolution > 0 {
		opts["resolution"] = o.Resolution
	}
	return opts
}

// ExtendScriptOptions renders the exportPDFViaExtendScript mapping, where the
// preset has to be the bracketed application preset name.
func (o ExportPDFOptions) ExtendScriptOptions() Options {
	return Options{
		"outputPath": o.OutputPath,
		"preset":     BracketPreset(o.Preset),
	}
}

// BracketPreset wraps a preset name in brackets unless it already is.
func BracketPreset(preset string) string {
	preset = strings.TrimSpace(preset)
	if strings.HasPrefix(preset, "[") && strings.HasSuffix(preset, "]") {
		return preset
	}
	return "[" + preset + "]"
}

// ExtendScriptOptions builds the executeExtendScript mapping.
func ExtendScriptOptions(code string) (Options, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("ExtendScript code is empty")
	}
	return Options{"code": code}, nil
}
