package model

import "errors"

// ErrFontMetricUnavailable reports that a font could not supply one of its
// metrics. It is never fatal: callers substitute zero and carry on.
var ErrFontMetricUnavailable = errors.New("font metric unavailable")

// Font is the font resource a glyph was shown with.
//
// Metrics are expressed in glyph space, thousandths of an em. Fonts are
// compared by identity when styles are interned, so implementations must be
// comparable and should be pointer types.
type Font interface {
	// BaseFont returns the PostScript name of the font, including any subset
	// tag (for example "ABCDEF+Arial-BoldItalic").
	BaseFont() string
	Ascent() (float64, error)
	Descent() (float64, error)
	// SpaceWidth returns the advance width of the space glyph.
	SpaceWidth() (float64, error)
}

// Metric evaluates a font metric query, returning zero and false when the
// font cannot answer it.
func Metric(query func() (float64, error)) (float64, bool) {
	v, err := query()
	if err != nil {
		return 0, false
	}
	return v, true
}
