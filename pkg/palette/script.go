package palette

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

var swatchTemplate = template.Must(template.New("swatches").Parse(`(function () {
    if (app.documents.length === 0) {
        return "No document open";
    }
    var doc = app.activeDocument;
    var created = 0;
    var updated = 0;
    function upsert(name, values) {
        var props = {model: ColorModel.PROCESS, space: ColorSpace.CMYK, colorValue: values};
        var color = doc.colors.itemByName(name);
        if (color.isValid) {
            color.properties = props;
            updated++;
        } else {
            props.name = name;
            doc.colors.add(props);
            created++;
        }
    }
{{- range .}}
    upsert("{{js .Name}}", {{.Values}});
{{- end}}
    return "Swatches created: " + created + ", updated: " + updated;
})();
`))

// SwatchScript renders an ExtendScript program that creates or updates a
// CMYK process swatch for each of swatches in the active document.
func (p *Palette) SwatchScript(swatches []Swatch) (string, error) {
	if len(swatches) == 0 {
		return "", fmt.Errorf("no swatches to apply")
	}
	type entry struct{ Name, Values string }
	entries := make([]entry, 0, len(swatches))
	for _, s := range swatches {
		entries = append(entries, entry{Name: p.DocumentName(s), Values: cmykLiteral(s.CMYK)})
	}
	var buf bytes.Buffer
	if err := swatchTemplate.Execute(&buf, entries); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DocumentName is the swatch name as it appears in the document.
func (p *Palette) DocumentName(s Swatch) string {
	if prefix := strings.TrimSpace(p.Prefix); prefix != "" {
		return prefix + " " + s.Name
	}
	return s.Name
}

func cmykLiteral(v [4]float64) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
