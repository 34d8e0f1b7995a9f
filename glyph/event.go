package glyph

import (
	"strings"

	"github.com/tsawler/pdf2xml/model"
)

// Event describes one decoded glyph.
type Event struct {
	// X is the left edge of the glyph and Baseline its vertical reference,
	// both measured from the top-left of the page's clip box.
	X        float64
	Baseline float64

	// Width is the advance width of the glyph without word spacing.
	Width  float64
	Height float64

	PointSize     float64
	VerticalScale float64

	// WordSpacing is the word spacing applied after space glyphs, in page
	// units. It is zero for glyphs it does not apply to.
	WordSpacing float64

	Font   model.Font
	Stroke model.Color
	Fill   model.Color

	// Text is normally a single character.
	Text string
}

// AdvanceWidth returns the glyph width including the word spacing owed to
// each space character it represents.
func (e Event) AdvanceWidth() float64 {
	if e.WordSpacing == 0 {
		return e.Width
	}
	return e.Width + e.WordSpacing*float64(strings.Count(e.Text, " "))
}

// Right returns the right edge of the glyph.
func (e Event) Right() float64 {
	return e.X + e.AdvanceWidth()
}

// Sink receives glyph events in rendering order.
type Sink func(Event)
