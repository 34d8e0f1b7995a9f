package glyph

import (
	"fmt"

	"github.com/tsawler/pdf2xml/model"
)

// graphicsState is the subset of the PDF graphics state that affects where
// and how glyphs are shown.
type graphicsState struct {
	// Current Transformation Matrix
	CTM model.Matrix

	Stroke colorState
	Fill   colorState

	Text textState
}

// colorState is a colour together with the number of components its colour
// space expects, so that sc/scn operands can be interpreted.
type colorState struct {
	Color      model.Color
	Components int
}

// textState represents text-specific state
type textState struct {
	// Font and size
	Font     *Font
	FontName string
	FontSize float64

	// Character and word spacing
	CharSpacing float64
	WordSpacing float64

	// Horizontal scaling (percentage)
	HorizontalScaling float64

	// Leading (line spacing)
	Leading float64

	// Text rendering mode
	RenderingMode int

	// Text rise
	Rise float64

	// Text matrices
	Matrix     model.Matrix
	LineMatrix model.Matrix
}

// stateStack is the graphics state with its q/Q save stack.
type stateStack struct {
	cur   graphicsState
	saved []graphicsState
}

func newStateStack(ctm model.Matrix) *stateStack {
	return &stateStack{
		cur: graphicsState{
			CTM:    ctm,
			Stroke: colorState{Color: model.Black, Components: 1},
			Fill:   colorState{Color: model.Black, Components: 1},
			Text: textState{
				FontSize:          12.0,
				HorizontalScaling: 100.0,
				Matrix:            model.Identity(),
				LineMatrix:        model.Identity(),
			},
		},
	}
}

// save pushes the current graphics state onto the stack (q operator)
func (s *stateStack) save() {
	s.saved = append(s.saved, s.cur)
}

// restore pops a graphics state from the stack (Q operator)
func (s *stateStack) restore() error {
	if len(s.saved) == 0 {
		return fmt.Errorf("graphics state stack underflow")
	}
	s.cur = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	return nil
}

// concat applies a transformation matrix to CTM (cm operator)
func (s *stateStack) concat(m model.Matrix) {
	s.cur.CTM = m.Multiply(s.cur.CTM)
}

// beginText initializes the text matrices (BT operator)
func (s *stateStack) beginText() {
	s.cur.Text.Matrix = model.Identity()
	s.cur.Text.LineMatrix = model.Identity()
}

// setTextMatrix sets the text matrix (Tm operator)
func (s *stateStack) setTextMatrix(m model.Matrix) {
	s.cur.Text.Matrix = m
	s.cur.Text.LineMatrix = m
}

// translateText starts a new line offset from the current one (Td operator)
func (s *stateStack) translateText(tx, ty float64) {
	s.cur.Text.LineMatrix = model.Translate(tx, ty).Multiply(s.cur.Text.LineMatrix)
	s.cur.Text.Matrix = s.cur.Text.LineMatrix
}

// nextLine moves to next line (T* operator)
func (s *stateStack) nextLine() {
	s.translateText(0, -s.cur.Text.Leading)
}

// advance moves the text matrix along the baseline by tx unscaled text space
// units.
func (s *stateStack) advance(tx float64) {
	s.cur.Text.Matrix = model.Translate(tx, 0).Multiply(s.cur.Text.Matrix)
}

// renderingMatrix returns the matrix mapping glyph space scaled by the font
// size to device space, that is [Tfs*Th 0 0 Tfs 0 Trise] x Tm x CTM.
func (s *stateStack) renderingMatrix() model.Matrix {
	ts := s.cur.Text
	params := model.Matrix{ts.FontSize * ts.HorizontalScaling / 100, 0, 0, ts.FontSize, 0, ts.Rise}
	return params.Multiply(ts.Matrix).Multiply(s.cur.CTM)
}

// userMatrix returns Tm x CTM.
func (s *stateStack) userMatrix() model.Matrix {
	return s.cur.Text.Matrix.Multiply(s.cur.CTM)
}

// setColorSpace resets a colour to the initial colour of a colour space
// (cs/CS operators).
func setColorSpace(c *colorState, name string) {
	switch name {
	case "DeviceGray", "CalGray", "G":
		*c = colorState{Color: model.Black, Components: 1}
	case "DeviceRGB", "CalRGB", "RGB":
		*c = colorState{Color: model.RGB(0, 0, 0), Components: 3}
	case "DeviceCMYK", "CMYK":
		*c = colorState{Color: model.RGB(0, 0, 0), Components: 4}
	default:
		// Named spaces from the resources (ICC, Indexed, Separation, Pattern)
		// are interpreted from the operand count instead.
		*c = colorState{Color: model.Black, Components: 0}
	}
}

// setColor applies sc/scn style operands to a colour.
func setColor(c *colorState, comps []float64) {
	n := c.Components
	if n == 0 || n > len(comps) {
		n = len(comps)
	}
	switch n {
	case 1:
		c.Color = model.Gray(comps[0])
	case 3:
		c.Color = model.RGB(comps[0], comps[1], comps[2])
	case 4:
		c.Color = model.CMYK(comps[0], comps[1], comps[2], comps[3])
	}
}
