// Package palette holds the brand color palette that documents are checked
// and colored against.
package palette

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultPrefix is prepended to swatch names when they are created in a document.
const DefaultPrefix = "TEEI"

// Swatch is one named brand color.
type Swatch struct {
	Name  string     `json:"name" yaml:"name"`
	Hex   string     `json:"hex" yaml:"hex"`
	RGB   [3]int     `json:"rgb" yaml:"rgb"`
	CMYK  [4]float64 `json:"cmyk" yaml:"cmyk"`
	Usage string     `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// Forbidden is a color that must never appear in a document.
type Forbidden struct {
	Hex    string `json:"hex" yaml:"hex"`
	Reason string `json:"reason" yaml:"reason"`
}

// Palette is the set of brand swatches, forbidden colors and the swatch to
// use per usage context.
type Palette struct {
	Prefix    string            `json:"prefix" yaml:"prefix"`
	Swatches  []Swatch          `json:"swatches" yaml:"swatches"`
	Forbidden []Forbidden       `json:"forbidden" yaml:"forbidden"`
	Contexts  map[string]string `json:"contexts" yaml:"contexts"`
}

// Validation is the outcome of checking one color against the palette.
type Validation struct {
	Input      string `json:"input"`
	Hex        string `json:"hex,omitempty"`
	Valid      bool   `json:"valid"`
	Forbidden  bool   `json:"forbidden"`
	Name       string `json:"name,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Message    string `json:"message"`
}

// Default returns the built-in brand palette.
func Default() *Palette {
	return &Palette{
		Prefix: DefaultPrefix,
		Swatches: []Swatch{
			{"nordshore", "#00393F", [3]int{0, 57, 63}, [4]float64{100, 10, 0, 75}, "Primary brand color, headers and key elements"},
			{"sky", "#C9E4EC", [3]int{201, 228, 236}, [4]float64{15, 3, 0, 7}, "Secondary accent, backgrounds and highlights"},
			{"sand", "#FFF1E2", [3]int{255, 241, 226}, [4]float64{0, 6, 11, 0}, "Warm neutral background"},
			{"beige", "#EFE1DC", [3]int{239, 225, 220}, [4]float64{0, 6, 8, 6}, "Soft neutral background"},
			{"moss", "#65873B", [3]int{101, 135, 59}, [4]float64{55, 20, 100, 10}, "Natural green accent"},
			{"moss_bg", "#CCD7CB", [3]int{204, 215, 203}, [4]float64{20, 5, 20, 0}, "Light moss background"},
			{"gold", "#BA8F5A", [3]int{186, 143, 90}, [4]float64{20, 35, 65, 10}, "Warm metallic accent for metrics"},
			{"clay", "#913B2F", [3]int{145, 59, 47}, [4]float64{20, 80, 80, 30}, "Rich terracotta accent"},
			{"white", "#FFFFFF", [3]int{255, 255, 255}, [4]float64{0, 0, 0, 0}, "Background, text on dark"},
			{"black", "#000000", [3]int{0, 0, 0}, [4]float64{0, 0, 0, 100}, "Body text"},
			{"gray_light", "#666666", [3]int{102, 102, 102}, [4]float64{0, 0, 0, 60}, "Captions, secondary text"},
			{"gray_dark", "#333333", [3]int{51, 51, 51}, [4]float64{0, 0, 0, 80}, "Dark text"},
		},
		Forbidden: []Forbidden{
			{"#C87137", "copper and orange tones are not part of the brand"},
			{"#FF6600", "copper and orange tones are not part of the brand"},
			{"#CC5500", "copper and orange tones are not part of the brand"},
		},
		Contexts: map[string]string{
			"header":             "nordshore",
			"header_bg":          "nordshore",
			"section_header":     "nordshore",
			"background":         "sand",
			"background_light":   "sky",
			"background_neutral": "beige",
			"accent":             "moss",
			"accent_warm":        "gold",
			"accent_bold":        "clay",
			"metric":             "moss",
			"metric_premium":     "gold",
			"text":               "black",
			"text_secondary":     "gray_light",
			"text_on_dark":       "white",
			"cta_bg":             "moss",
			"cta_text":           "white",
		},
	}
}

// Load reads a palette file and lays it over the default palette. Swatches
// with a known name replace the built-in one, new names are appended. A
// non-empty forbidden list replaces the built-in list.
func Load(fs afero.Fs, path string) (*Palette, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read palette file %s: %w", path, err)
	}
	var override Palette
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("cannot parse palette file %s: %w", path, err)
	}
	if err := p.merge(override); err != nil {
		return nil, fmt.Errorf("invalid palette file %s: %w", path, err)
	}
	log.Debugf("Loaded %d swatches from %s", len(override.Swatches), path)
	return p, nil
}

func (p *Palette) merge(o Palette) error {
	if o.Prefix != "" {
		p.Prefix = o.Prefix
	}
	for _, s := range o.Swatches {
		if s.Name == "" {
			return fmt.Errorf("swatch with hex %q has no name", s.Hex)
		}
		hex, err := NormalizeHex(s.Hex)
		if err != nil {
			return fmt.Errorf("swatch %s: %w", s.Name, err)
		}
		s.Hex = hex
		if s.RGB == [3]int{} && hex != "#000000" {
			s.RGB, _ = hexToRGB(hex)
		}
		if i := p.index(s.Name); i >= 0 {
			p.Swatches[i] = s
		} else {
			p.Swatches = append(p.Swatches, s)
		}
	}
	if len(o.Forbidden) > 0 {
		p.Forbidden = nil
		for _, f := range o.Forbidden {
			hex, err := NormalizeHex(f.Hex)
			if err != nil {
				return fmt.Errorf("forbidden color: %w", err)
			}
			p.Forbidden = append(p.Forbidden, Forbidden{Hex: hex, Reason: f.Reason})
		}
	}
	for ctx, name := range o.Contexts {
		if p.index(name) < 0 {
			return fmt.Errorf("context %s refers to unknown swatch %s", ctx, name)
		}
		p.Contexts[strings.ToLower(ctx)] = name
	}
	return nil
}

func (p *Palette) index(name string) int {
	for i, s := range p.Swatches {
		if strings.EqualFold(s.Name, name) {
			return i
		}
	}
	return -1
}

// Lookup finds a swatch by name, case-insensitively.
func (p *Palette) Lookup(name string) (Swatch, bool) {
	if i := p.index(name); i >= 0 {
		return p.Swatches[i], true
	}
	return Swatch{}, false
}

// Select returns the named swatches in the order given, or every swatch
// when names is empty.
func (p *Palette) Select(names []string) ([]Swatch, error) {
	if len(names) == 0 {
		out := make([]Swatch, len(p.Swatches))
		copy(out, p.Swatches)
		return out, nil
	}
	out := make([]Swatch, 0, len(names))
	for _, n := range names {
		s, ok := p.Lookup(n)
		if !ok {
			return nil, fmt.Errorf("unknown swatch %q", n)
		}
		out = append(out, s)
	}
	return out, nil
}

// ForContext returns the swatch for a usage context such as "header" or
// "metric". Unknown contexts get the primary color.
func (p *Palette) ForContext(context string) Swatch {
	name, ok := p.Contexts[strings.ToLower(strings.TrimSpace(context))]
	if !ok {
		name = p.Swatches[0].Name
	}
	s, _ := p.Lookup(name)
	return s
}

// ContextNames returns the known usage contexts, sorted.
func (p *Palette) ContextNames() []string {
	names := make([]string, 0, len(p.Contexts))
	for k := range p.Contexts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var hexPattern = regexp.MustCompile(`^[0-9A-F]{3}([0-9A-F]{3})?$`)

// NormalizeHex returns color as upper-case #RRGGBB. A missing # and the
// three digit shorthand are accepted.
func NormalizeHex(color string) (string, error) {
	h := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	if !hexPattern.MatchString(h) {
		return "", fmt.Errorf("%q is not a hex color", color)
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	return "#" + h, nil
}

func hexToRGB(hex string) ([3]int, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return [3]int{}, err
	}
	return [3]int{int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)}, nil
}

// Validate checks color against the palette. A forbidden color is reported
// as forbidden even if it also matches a swatch.
func (p *Palette) Validate(color string) Validation {
	v := Validation{Input: color}
	hex, err := NormalizeHex(color)
	if err != nil {
		v.Message = err.Error()
		return v
	}
	v.Hex = hex

	for _, f := range p.Forbidden {
		if f.Hex == hex {
			v.Forbidden = true
			v.Suggestion = p.Swatches[0].Name
			v.Message = fmt.Sprintf("%s is forbidden: %s", hex, f.Reason)
			return v
		}
	}
	for _, s := range p.Swatches {
		if strings.EqualFold(s.Hex, hex) {
			v.Valid = true
			v.Name = s.Name
			v.Message = fmt.Sprintf("%s is %s", hex, s.Name)
			return v
		}
	}
	v.Suggestion = p.closest(hex)
	v.Message = fmt.Sprintf("%s is not a brand color, closest is %s", hex, v.Suggestion)
	return v
}

func (p *Palette) closest(hex string) string {
	rgb, err := hexToRGB(hex)
	if err != nil {
		return p.Swatches[0].Name
	}
	best, bestDist := p.Swatches[0].Name, math.MaxFloat64
	for _, s := range p.Swatches {
		dr := float64(rgb[0] - s.RGB[0])
		dg := float64(rgb[1] - s.RGB[1])
		db := float64(rgb[2] - s.RGB[2])
		if d := math.Sqrt(dr*dr + dg*dg + db*db); d < bestDist {
			best, bestDist = s.Name, d
		}
	}
	return best
}
