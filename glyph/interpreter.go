package glyph

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"

	"github.com/tsawler/pdf2xml/model"
)

// DefaultMaxFormDepth bounds the nesting of form XObjects.
const DefaultMaxFormDepth = 12

// parseMu serialises content stream parsing. The tabula parser keeps its
// operand stack in a package variable.
var parseMu sync.Mutex

// Resources resolves the named resources a content stream refers to.
type Resources interface {
	// Font returns the font registered under name.
	Font(name string) (*Font, error)
	// Form returns the form XObject registered under name, or nil when the
	// XObject is not a form.
	Form(name string) (*Form, error)
}

// Form is a form XObject ready to be interpreted.
type Form struct {
	Content   []byte
	Matrix    model.Matrix
	Resources Resources // nil inherits the invoking stream's resources
}

// Interpreter executes page content streams and reports every shown glyph
// to a Sink in top-down page coordinates.
type Interpreter struct {
	sink  Sink
	left  float64
	top   float64
	state *stateStack

	// MaxFormDepth limits form XObject recursion.
	MaxFormDepth int

	fallback *Font
	problems []error
}

// NewInterpreter creates an interpreter for a page whose clip box is given
// as [llx lly urx ury] in default user space.
func NewInterpreter(box [4]float64, sink Sink) *Interpreter {
	left, top := min(box[0], box[2]), max(box[1], box[3])
	return &Interpreter{
		sink:         sink,
		left:         left,
		top:          top,
		state:        newStateStack(model.Identity()),
		MaxFormDepth: DefaultMaxFormDepth,
	}
}

// Problems returns the recoverable problems met while interpreting, such
// as missing fonts or unbalanced save/restore operators.
func (in *Interpreter) Problems() []error {
	return in.problems
}

// Run interprets one content stream. Streams of the same page must be run
// in order on the same interpreter.
func (in *Interpreter) Run(content []byte, res Resources) error {
	return in.run(content, res, 0)
}

func (in *Interpreter) run(content []byte, res Resources, depth int) error {
	parseMu.Lock()
	ops, err := contentstream.NewParser(renameQuotes(content)).Parse()
	parseMu.Unlock()
	if err != nil {
		return fmt.Errorf("parse content stream: %w", err)
	}

	for i, op := range ops {
		op.Operator = operatorName(op.Operator)
		if err := in.process(op, res, depth); err != nil {
			in.problems = append(in.problems, fmt.Errorf("operation %d (%s): %w", i, op.Operator, err))
		}
	}
	return nil
}

func (in *Interpreter) process(op contentstream.Operation, res Resources, depth int) error {
	s := in.state
	ts := &s.cur.Text
	args := op.Operands

	switch op.Operator {
	// Graphics state
	case "q":
		s.save()
	case "Q":
		return s.restore()
	case "cm":
		if len(args) == 6 {
			s.concat(operandsToMatrix(args))
		}

	// Colour
	case "g", "G", "rg", "RG", "k", "K", "sc", "SC", "scn", "SCN":
		comps := numbers(args)
		if len(comps) == 0 {
			return nil
		}
		c := &s.cur.Fill
		if isUpper(op.Operator[0]) {
			c = &s.cur.Stroke
		}
		switch op.Operator {
		case "g", "G":
			c.Components = 1
		case "rg", "RG":
			c.Components = 3
		case "k", "K":
			c.Components = 4
		}
		setColor(c, comps)
	case "cs", "CS":
		if len(args) == 1 {
			c := &s.cur.Fill
			if op.Operator == "CS" {
				c = &s.cur.Stroke
			}
			setColorSpace(c, nameOf(args[0]))
		}

	// Text objects
	case "BT":
		s.beginText()
	case "ET":

	// Text state
	case "Tf":
		if len(args) != 2 {
			return nil
		}
		name := nameOf(args[0])
		if size, ok := toFloat(args[1]); ok {
			ts.FontSize = size
		}
		ts.FontName = name
		ts.Font = in.font(name, res)
	case "Tc":
		if len(args) == 1 {
			ts.CharSpacing, _ = toFloat(args[0])
		}
	case "Tw":
		if len(args) == 1 {
			ts.WordSpacing, _ = toFloat(args[0])
		}
	case "Tz":
		if len(args) == 1 {
			if scale, ok := toFloat(args[0]); ok {
				ts.HorizontalScaling = scale
			}
		}
	case "TL":
		if len(args) == 1 {
			ts.Leading, _ = toFloat(args[0])
		}
	case "Tr":
		if len(args) == 1 {
			ts.RenderingMode, _ = toInt(args[0])
		}
	case "Ts":
		if len(args) == 1 {
			ts.Rise, _ = toFloat(args[0])
		}

	// Text positioning
	case "Tm":
		if len(args) == 6 {
			s.setTextMatrix(operandsToMatrix(args))
		}
	case "Td", "TD":
		if len(args) == 2 {
			tx, _ := toFloat(args[0])
			ty, _ := toFloat(args[1])
			if op.Operator == "TD" {
				ts.Leading = -ty
			}
			s.translateText(tx, ty)
		}
	case "T*":
		s.nextLine()

	// Text showing
	case "Tj":
		if len(args) == 1 {
			in.showText(stringBytes(args[0]), res)
		}
	case "TJ":
		if len(args) == 1 {
			if arr, ok := args[0].(core.Array); ok {
				in.showTextArray(arr, res)
			}
		}
	case "'":
		s.nextLine()
		if len(args) == 1 {
			in.showText(stringBytes(args[0]), res)
		}
	case "\"":
		if len(args) == 3 {
			ts.WordSpacing, _ = toFloat(args[0])
			ts.CharSpacing, _ = toFloat(args[1])
			s.nextLine()
			in.showText(stringBytes(args[2]), res)
		}

	// XObjects
	case "Do":
		if len(args) == 1 {
			return in.doXObject(nameOf(args[0]), res, depth)
		}
	}

	return nil
}

// font looks a font resource up, falling back to Helvetica when the
// resource is missing.
func (in *Interpreter) font(name string, res Resources) *Font {
	if res != nil {
		f, err := res.Font(name)
		if err == nil && f != nil {
			return f
		}
		if err != nil {
			in.problems = append(in.problems, fmt.Errorf("font %s: %w", name, err))
		}
	}
	return in.defaultFont()
}

func (in *Interpreter) defaultFont() *Font {
	if in.fallback == nil {
		in.fallback = NewStandardFont("Helvetica", "Helvetica")
	}
	return in.fallback
}

// showText emits one event per character code and advances the text matrix.
func (in *Interpreter) showText(data []byte, res Resources) {
	s := in.state
	ts := &s.cur.Text
	f := ts.Font
	if f == nil {
		f = in.defaultFont()
		ts.Font = f
	}

	th := ts.HorizontalScaling / 100
	for _, c := range f.codes(data) {
		w0 := c.width / 1000
		var wordSpacing float64
		if isSpaceCode(c.raw) {
			wordSpacing = ts.WordSpacing
		}

		if c.text != "" {
			trm := s.renderingMatrix()
			user := s.userMatrix()
			origin := trm.Transform(model.Point{})
			vscale := trm.YScale()
			pointSize := ts.FontSize * user.YScale()

			height := f.height() / 1000 * vscale
			if height <= 0 {
				height = pointSize
			}

			in.sink(Event{
				X:             origin.X - in.left,
				Baseline:      in.top - origin.Y,
				Width:         w0 * ts.FontSize * th * user.XScale(),
				Height:        height,
				PointSize:     pointSize,
				VerticalScale: vscale,
				WordSpacing:   wordSpacing * th * user.XScale(),
				Font:          f,
				Stroke:        s.cur.Stroke.Color,
				Fill:          s.cur.Fill.Color,
				Text:          c.text,
			})
		}

		s.advance((w0*ts.FontSize + ts.CharSpacing + wordSpacing) * th)
	}
}

func (in *Interpreter) showTextArray(arr core.Array, res Resources) {
	ts := &in.state.cur.Text
	for _, item := range arr {
		if adj, ok := toFloat(item); ok {
			in.state.advance(-adj / 1000 * ts.FontSize * ts.HorizontalScaling / 100)
			continue
		}
		if data := stringBytes(item); data != nil {
			in.showText(data, res)
		}
	}
}

var errFormDepth = errors.New("form nesting too deep")

// doXObject runs a form XObject inside its own saved graphics state.
func (in *Interpreter) doXObject(name string, res Resources, depth int) error {
	if res == nil {
		return nil
	}
	form, err := res.Form(name)
	if err != nil {
		return fmt.Errorf("xobject %s: %w", name, err)
	}
	if form == nil {
		return nil
	}
	if depth >= in.MaxFormDepth {
		return fmt.Errorf("xobject %s: %w", name, errFormDepth)
	}

	formRes := form.Resources
	if formRes == nil {
		formRes = res
	}

	s := in.state
	cur, saved := s.cur, slices.Clone(s.saved)
	s.concat(form.Matrix)
	err = in.run(form.Content, formRes, depth+1)
	s.cur, s.saved = cur, saved
	return err
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func stringBytes(obj core.Object) []byte {
	if str, ok := obj.(core.String); ok {
		return []byte(str)
	}
	return nil
}

func numbers(objs []core.Object) []float64 {
	out := make([]float64, 0, len(objs))
	for _, o := range objs {
		if v, ok := toFloat(o); ok {
			out = append(out, v)
		}
	}
	return out
}

func toFloat(obj core.Object) (float64, bool) {
	switch v := obj.(type) {
	case core.Int:
		return float64(v), true
	case core.Real:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt(obj core.Object) (int, bool) {
	switch v := obj.(type) {
	case core.Int:
		return int(v), true
	case core.Real:
		return int(v), true
	default:
		return 0, false
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func operandsToMatrix(operands []core.Object) model.Matrix {
	var m model.Matrix
	for i, op := range operands[:6] {
		m[i], _ = toFloat(op)
	}
	return m
}
