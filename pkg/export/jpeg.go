package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

// JPEG quality levels understood by the application.
const (
	QualityLow     = "LOW"
	QualityMedium  = "MEDIUM"
	QualityHigh    = "HIGH"
	QualityMaximum = "MAXIMUM"
)

// JPEGOptions configures a per-page JPEG export.
type JPEGOptions struct {
	OutputPath string
	Quality    string
	Resolution int
}

// DefaultJPEGOptions exports at maximum quality and 300 dpi.
func DefaultJPEGOptions() JPEGOptions {
	return JPEGOptions{Quality: QualityMaximum, Resolution: 300}
}

func (o JPEGOptions) Validate() error {
	if strings.TrimSpace(o.OutputPath) == "" {
		return fmt.Errorf("export needs an output path")
	}
	return o.ValidateSettings()
}

// ValidateSettings checks quality and resolution only.
func (o JPEGOptions) ValidateSettings() error {
	switch strings.ToUpper(o.Quality) {
	case QualityLow, QualityMedium, QualityHigh, QualityMaximum:
	default:
		return fmt.Errorf("invalid JPEG quality %q: must be one of low, medium, high, maximum", o.Quality)
	}
	if o.Resolution < 36 || o.Resolution > 2400 {
		return fmt.Errorf("JPEG resolution must be between 36 and 2400 dpi, got %d", o.Resolution)
	}
	return nil
}

// One page is written to the given path. More pages get _<n> before the
// extension. The script returns the written paths, one per line.
var jpegTemplate = template.Must(template.New("jpeg").Parse(`(function () {
    if (app.documents.length === 0) {
        throw new Error("No document open");
    }
    var doc = app.activeDocument;
    var prefs = app.jpegExportPreferences;
    prefs.jpegQuality = JPEGOptionsQuality.{{.Quality}};
    prefs.exportResolution = {{.Resolution}};
    prefs.jpegExportRange = ExportRangeOrAllPages.EXPORT_RANGE;
    var written = [];
    var count = doc.pages.length;
    for (var i = 0; i < count; i++) {
        var page = doc.pages[i];
        prefs.pageString = page.name;
        var path = count === 1 ? "{{js .Base}}{{js .Ext}}" : "{{js .Base}}_" + (i + 1) + "{{js .Ext}}";
        var file = new File(path);
        doc.exportFile(ExportFormat.JPG, file, false);
        written.push(file.fsName);
    }
    return written.join("\n");
})();
`))

// Script renders the ExtendScript that performs the export.
func (o JPEGOptions) Script() (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}
	ext := filepath.Ext(o.OutputPath)
	data := struct {
		Base, Ext, Quality string
		Resolution         int
	}{
		Base:       filepath.ToSlash(strings.TrimSuffix(o.OutputPath, ext)),
		Ext:        ext,
		Quality:    strings.ToUpper(o.Quality),
		Resolution: o.Resolution,
	}
	var buf bytes.Buffer
	if err := jpegTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PagePaths lists the files a JPEG export of pages pages writes.
func (o JPEGOptions) PagePaths(pages int) []string {
	if pages <= 1 {
		return []string{o.OutputPath}
	}
	ext := filepath.Ext(o.OutputPath)
	base := strings.TrimSuffix(o.OutputPath, ext)
	out := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		out = append(out, fmt.Sprintf("%s_%d%s", base, i, ext))
	}
	return out
}
