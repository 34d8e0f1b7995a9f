package glyph

import (
	"strings"
	"unicode/utf8"

	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/font"

	"github.com/tsawler/pdf2xml/model"
)

// Resolver resolves indirect references in the document being read.
type Resolver func(core.IndirectRef) (core.Object, error)

// Font adapts a PDF font resource. It decodes character codes to text, knows
// the advance width of every code and answers the metric queries of
// model.Font. A *Font is created once per font object, so fonts can be
// compared by identity.
type Font struct {
	name    string
	base    string
	subtype string

	decoder *font.Font
	twoByte bool

	// Simple font widths, indexed by code-firstChar.
	firstChar    int
	widths       []float64
	missingWidth float64

	cid        *font.CIDFont
	descriptor *font.FontDescriptor
}

var _ model.Font = (*Font)(nil)

// code is one character code of a shown string.
type code struct {
	raw   []byte
	text  string
	width float64 // glyph space units
}

// NewFont builds a font from a font dictionary. Fonts that cannot be parsed
// fall back to the encoding and standard widths of their base font.
func NewFont(name string, dict core.Dict, resolve Resolver) *Font {
	baseFont := nameOf(dict.Get("BaseFont"))
	subtype := nameOf(dict.Get("Subtype"))

	f := &Font{name: name, base: baseFont, subtype: subtype}

	switch subtype {
	case "Type1":
		if t1, err := font.NewType1Font(dict, resolve); err == nil {
			f.decoder = t1.Font
			f.firstChar = t1.FirstChar
			f.widths = t1.Widths
			f.descriptor = t1.FontDescriptor
			if f.decoder.ToUnicodeCMap == nil && t1.ToUnicode != nil {
				if cmap, err := font.ParseToUnicodeCMap(t1.ToUnicode); err == nil {
					f.decoder.ToUnicodeCMap = cmap
				}
			}
		}
	case "TrueType":
		if tt, err := font.NewTrueTypeFont(dict, resolve); err == nil {
			f.decoder = tt.Font
			f.firstChar = tt.FirstChar
			f.widths = tt.Widths
			f.descriptor = tt.FontDescriptor
		}
	case "Type0":
		if t0, err := font.NewType0Font(dict, resolve); err == nil {
			f.decoder = t0.Font
			f.twoByte = true
			f.cid = t0.DescendantFont
			if f.cid != nil {
				f.descriptor = f.cid.FontDescriptor
			}
		}
	}

	if f.decoder == nil {
		f.decoder = font.NewFont(name, baseFont, subtype)
		f.firstChar, f.widths = simpleWidths(dict, resolve)
	}
	if f.descriptor != nil {
		f.missingWidth = f.descriptor.MissingWidth
	}
	return f
}

// NewStandardFont creates a font for a resource that could not be found,
// using the metrics of one of the standard 14 fonts.
func NewStandardFont(name, baseFont string) *Font {
	return &Font{
		name:    name,
		base:    baseFont,
		subtype: "Type1",
		decoder: font.NewFont(name, baseFont, "Type1"),
	}
}

// Name returns the resource name the font was registered under.
func (f *Font) Name() string {
	return f.name
}

// BaseFont returns the PostScript name of the font.
func (f *Font) BaseFont() string {
	return f.base
}

// Ascent returns the maximum height above the baseline in glyph space units.
func (f *Font) Ascent() (float64, error) {
	if d := f.descriptor; d != nil {
		if d.Ascent != 0 {
			return d.Ascent, nil
		}
		if d.FontBBox[3] != 0 {
			return d.FontBBox[3], nil
		}
	}
	if m, ok := lookupStandardMetrics(f.base); ok {
		return m.ascent, nil
	}
	return 0, model.ErrFontMetricUnavailable
}

// Descent returns the maximum depth below the baseline in glyph space units.
// The value is never positive.
func (f *Font) Descent() (float64, error) {
	if d := f.descriptor; d != nil {
		if d.Descent != 0 {
			return -abs(d.Descent), nil
		}
		if d.FontBBox[1] != 0 {
			return -abs(d.FontBBox[1]), nil
		}
	}
	if m, ok := lookupStandardMetrics(f.base); ok {
		return m.descent, nil
	}
	return 0, model.ErrFontMetricUnavailable
}

// SpaceWidth returns the advance width of the space glyph in glyph space
// units.
func (f *Font) SpaceWidth() (float64, error) {
	if !f.twoByte {
		if w, ok := f.simpleWidth(' '); ok && w > 0 {
			return w, nil
		}
		if m, ok := lookupStandardMetrics(f.base); ok {
			return m.space, nil
		}
		if f.decoder.IsStandardFont() {
			return f.decoder.GetWidth(' '), nil
		}
	}
	if d := f.descriptor; d != nil {
		if d.AvgWidth > 0 {
			return d.AvgWidth, nil
		}
		if d.MissingWidth > 0 {
			return d.MissingWidth, nil
		}
	}
	if f.cid != nil && f.cid.DW > 0 {
		return f.cid.DW / 4, nil
	}
	return 0, model.ErrFontMetricUnavailable
}

// height returns the glyph box height in glyph space units, or zero when the
// font has no usable metrics.
func (f *Font) height() float64 {
	asc, err := f.Ascent()
	if err != nil {
		return 0
	}
	desc, err := f.Descent()
	if err != nil {
		return 0
	}
	return asc - desc
}

// codes splits a shown string into character codes.
func (f *Font) codes(data []byte) []code {
	step := 1
	if f.twoByte {
		step = 2
	}
	out := make([]code, 0, len(data)/step+1)
	for i := 0; i < len(data); i += step {
		end := i + step
		if end > len(data) {
			end = len(data)
		}
		raw := data[i:end]
		c := code{raw: raw, text: f.decoder.DecodeString(raw)}
		c.width = f.codeWidth(raw, c.text)
		out = append(out, c)
	}
	return out
}

func (f *Font) codeWidth(raw []byte, text string) float64 {
	if f.twoByte {
		if f.cid == nil {
			return 1000
		}
		cid := int(raw[0])
		if len(raw) > 1 {
			cid = cid<<8 | int(raw[1])
		}
		return f.cid.GetWidthForCID(cid)
	}
	if w, ok := f.simpleWidth(int(raw[0])); ok {
		return w
	}
	if f.missingWidth > 0 {
		return f.missingWidth
	}
	r, _ := utf8.DecodeRuneInString(text)
	return f.decoder.GetWidth(r)
}

func (f *Font) simpleWidth(c int) (float64, bool) {
	i := c - f.firstChar
	if i < 0 || i >= len(f.widths) {
		return 0, false
	}
	return f.widths[i], true
}

// isSpaceCode reports whether word spacing applies to the code: only the
// single byte code 32 receives it.
func isSpaceCode(raw []byte) bool {
	return len(raw) == 1 && raw[0] == ' '
}

// simpleWidths reads FirstChar and Widths from a simple font dictionary.
func simpleWidths(dict core.Dict, resolve Resolver) (int, []float64) {
	first, _ := toInt(dict.Get("FirstChar"))
	obj := dict.Get("Widths")
	if ref, ok := obj.(core.IndirectRef); ok && resolve != nil {
		resolved, err := resolve(ref)
		if err != nil {
			return 0, nil
		}
		obj = resolved
	}
	arr, ok := obj.(core.Array)
	if !ok {
		return 0, nil
	}
	widths := make([]float64, len(arr))
	for i, w := range arr {
		widths[i], _ = toFloat(w)
	}
	return first, widths
}

func nameOf(obj core.Object) string {
	switch v := obj.(type) {
	case core.Name:
		return string(v)
	case core.String:
		return string(v)
	}
	return ""
}

// standardMetrics are the AFM values of the standard 14 font families.
type standardMetrics struct {
	ascent, descent, space float64
}

var standardFamilies = []struct {
	prefix  string
	metrics standardMetrics
}{
	{"Helvetica", standardMetrics{718, -207, 278}},
	{"Arial", standardMetrics{718, -207, 278}},
	{"Times", standardMetrics{683, -217, 250}},
	{"Courier", standardMetrics{629, -157, 600}},
	{"Symbol", standardMetrics{1010, -293, 250}},
	{"ZapfDingbats", standardMetrics{820, -143, 278}},
}

func lookupStandardMetrics(baseFont string) (standardMetrics, bool) {
	name := baseFont
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}
	for _, fam := range standardFamilies {
		if strings.HasPrefix(name, fam.prefix) {
			return fam.metrics, true
		}
	}
	return standardMetrics{}, false
}
