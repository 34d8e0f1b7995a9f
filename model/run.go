package model

import "math"

// Run is a sequence of glyphs that share a style and a baseline, typically a
// word or a fragment of a line.
type Run struct {
	// X is the left edge and Baseline the vertical reference of the run.
	X        float64
	Baseline float64

	// Width covers every glyph in the run including the gaps between them.
	Width  float64
	Height float64

	// Ascent is the distance above the baseline, Descent the (non-positive)
	// distance below it.
	Ascent  float64
	Descent float64

	// PointSize is the font size of the glyph that opened the run.
	PointSize float64

	Text   string
	Glyphs int

	Style  StyleID
	Font   Font
	Stroke Color
	Fill   Color
}

// Right returns the right edge of the run.
func (r *Run) Right() float64 {
	return r.X + r.Width
}

// Top returns the highest point of the run on the page.
func (r *Run) Top() float64 {
	return r.Baseline - r.Ascent
}

// Bottom returns the lowest point of the run on the page.
func (r *Run) Bottom() float64 {
	return r.Baseline - r.Descent
}

// Bounds returns the box covered by the run. When no ascent is known the
// run's height above the baseline is used instead.
func (r *Run) Bounds() Rect {
	top := r.Top()
	if r.Ascent == 0 && r.Descent == 0 {
		top = r.Baseline - r.Height
	}
	return Rect{X: r.X, Y: top, Width: r.Width, Height: r.Bottom() - top}
}

// SameStyle reports whether r and other may be merged.
func (r *Run) SameStyle(other *Run) bool {
	return r.Style == other.Style
}

// Append folds other into r as if it followed r on the line. The width grows by
// the positional delta between the two, so any gap becomes part of the run.
func (r *Run) Append(other *Run) {
	r.Text += other.Text
	r.extend(other)
}

// Prepend folds other into r as if it preceded r on the line.
func (r *Run) Prepend(other *Run) {
	r.Text = other.Text + r.Text
	r.extend(other)
}

func (r *Run) extend(other *Run) {
	left := math.Min(r.X, other.X)
	right := math.Max(r.Right(), other.Right())
	r.X = left
	r.Width = right - left
	r.Height = math.Max(r.Height, other.Height)
	r.Ascent = math.Max(r.Ascent, other.Ascent)
	r.Descent = math.Min(r.Descent, other.Descent)
	r.Glyphs += other.Glyphs
}
