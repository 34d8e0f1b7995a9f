// Package glyph turns PDF content streams into a stream of positioned,
// styled glyph events.
//
// An [Interpreter] walks the operations of a page's content stream, tracking
// the graphics and text state the way a renderer would, and calls a [Sink]
// once for every character code shown. Each [Event] carries the glyph's
// position in top-down page coordinates, its advance width, the font it was
// shown with and the colours in effect.
//
// Fonts are adapted from the github.com/tsawler/tabula font package by
// [NewFont]; they decode character codes to text and expose the ascent,
// descent and space width needed to coalesce glyphs into runs.
package glyph
