package glyph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/tabula/core"

	"github.com/tsawler/pdf2xml/model"
)

var letterBox = [4]float64{0, 0, 612, 792}

// fixedWidthFont returns a Type1 font where every code from 32 to 126 is
// 500 glyph units wide.
func fixedWidthFont(t *testing.T) *Font {
	t.Helper()
	widths := make(core.Array, 95)
	for i := range widths {
		widths[i] = core.Int(500)
	}
	f := NewFont("F1", core.Dict{
		"Type":      core.Name("Font"),
		"Subtype":   core.Name("Type1"),
		"BaseFont":  core.Name("Helvetica"),
		"FirstChar": core.Int(32),
		"LastChar":  core.Int(126),
		"Widths":    widths,
	}, nil)
	require.NotNil(t, f)
	return f
}

type fakeResources struct {
	fonts map[string]*Font
	forms map[string]*Form
}

func (r *fakeResources) Font(name string) (*Font, error) {
	if f, ok := r.fonts[name]; ok {
		return f, nil
	}
	return nil, errors.New("no such font")
}

func (r *fakeResources) Form(name string) (*Form, error) {
	return r.forms[name], nil
}

func interpret(t *testing.T, content string, res Resources) ([]Event, *Interpreter) {
	t.Helper()
	var events []Event
	in := NewInterpreter(letterBox, func(e Event) {
		events = append(events, e)
	})
	require.NoError(t, in.Run([]byte(content), res))
	return events, in
}

func TestInterpreterShowText(t *testing.T) {
	res := &fakeResources{fonts: map[string]*Font{"F1": fixedWidthFont(t)}}
	events, in := interpret(t, "BT /F1 10 Tf 1 0 0 1 100 700 Tm (Hi) Tj ET", res)

	require.Len(t, events, 2)
	assert.Empty(t, in.Problems())

	assert.Equal(t, "H", events[0].Text)
	assert.InDelta(t, 100, events[0].X, 1e-9)
	assert.InDelta(t, 92, events[0].Baseline, 1e-9)
	assert.InDelta(t, 5, events[0].Width, 1e-9)
	assert.InDelta(t, 10, events[0].PointSize, 1e-9)
	assert.InDelta(t, 10, events[0].VerticalScale, 1e-9)
	assert.InDelta(t, (718.0+207.0)/1000*10, events[0].Height, 1e-9)

	assert.Equal(t, "i", events[1].Text)
	assert.InDelta(t, 105, events[1].X, 1e-9)
	assert.Same(t, res.fonts["F1"], events[1].Font)
}

func TestInterpreterSpacing(t *testing.T) {
	res := &fakeResources{fonts: map[string]*Font{"F1": fixedWidthFont(t)}}

	tests := []struct {
		name    string
		content string
		wantX   []float64
		wantWS  []float64
	}{
		{
			name:    "character spacing",
			content: "BT /F1 10 Tf 1 Tc 1 0 0 1 0 700 Tm (ab) Tj ET",
			wantX:   []float64{0, 6},
			wantWS:  []float64{0, 0},
		},
		{
			name:    "word spacing applies to space only",
			content: "BT /F1 10 Tf 3 Tw 1 0 0 1 0 700 Tm (a b) Tj ET",
			wantX:   []float64{0, 5, 13},
			wantWS:  []float64{0, 3, 0},
		},
		{
			name:    "horizontal scaling",
			content: "BT /F1 10 Tf 50 Tz 1 0 0 1 0 700 Tm (ab) Tj ET",
			wantX:   []float64{0, 2.5},
			wantWS:  []float64{0, 0},
		},
		{
			name:    "TJ adjustment",
			content: "BT /F1 10 Tf 1 0 0 1 0 700 Tm [(a) -1000 (b)] TJ ET",
			wantX:   []float64{0, 15},
			wantWS:  []float64{0, 0},
		},
		{
			name:    "scaled text matrix",
			content: "BT /F1 1 Tf 10 0 0 10 0 700 Tm (ab) Tj ET",
			wantX:   []float64{0, 5},
			wantWS:  []float64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, _ := interpret(t, tt.content, res)
			require.Len(t, events, len(tt.wantX))
			for i, e := range events {
				assert.InDelta(t, tt.wantX[i], e.X, 1e-9, "event %d", i)
				assert.InDelta(t, tt.wantWS[i], e.WordSpacing, 1e-9, "event %d", i)
				assert.InDelta(t, 10, e.PointSize, 1e-9, "event %d", i)
			}
		})
	}
}

func TestInterpreterLineMovement(t *testing.T) {
	res := &fakeResources{fonts: map[string]*Font{"F1": fixedWidthFont(t)}}
	content := "BT /F1 10 Tf 12 TL 72 700 Td (a) Tj T* (b) Tj 0 -20 TD (c) Tj (d) ' ET"
	events, _ := interpret(t, content, res)

	require.Len(t, events, 4)
	baselines := []float64{92, 104, 124, 144}
	for i, e := range events {
		assert.InDelta(t, 72, e.X, 1e-9)
		assert.InDelta(t, baselines[i], e.Baseline, 1e-9)
	}
}

func TestInterpreterColor(t *testing.T) {
	res := &fakeResources{fonts: map[string]*Font{"F1": fixedWidthFont(t)}}
	content := "1 0 0 rg 0.5 G BT /F1 10 Tf (a) Tj 0 0 1 0 k (b) Tj /DeviceRGB cs 0 1 0 sc (c) Tj ET"
	events, _ := interpret(t, content, res)

	require.Len(t, events, 3)
	assert.Equal(t, model.RGB(1, 0, 0), events[0].Fill)
	assert.Equal(t, model.Gray(0.5), events[0].Stroke)
	assert.Equal(t, model.CMYK(0, 0, 1, 0), events[1].Fill)
	assert.Equal(t, model.RGB(0, 1, 0), events[2].Fill)
}

func TestInterpreterSaveRestore(t *testing.T) {
	res := &fakeResources{fonts: map[string]*Font{"F1": fixedWidthFont(t)}}
	content := "q 1 0 0 1 50 0 cm BT /F1 10 Tf 1 0 0 1 0 700 Tm (a) Tj ET Q BT /F1 10 Tf 1 0 0 1 0 700 Tm (b) Tj ET Q"
	events, in := interpret(t, content, res)

	require.Len(t, events, 2)
	assert.InDelta(t, 50, events[0].X, 1e-9)
	assert.InDelta(t, 0, events[1].X, 1e-9)
	require.Len(t, in.Problems(), 1, "unbalanced Q is reported")
}

func TestInterpreterMissingFont(t *testing.T) {
	events, in := interpret(t, "BT /Nope 10 Tf 1 0 0 1 0 700 Tm (a) Tj ET", &fakeResources{})

	require.Len(t, events, 1)
	assert.Equal(t, "Helvetica", events[0].Font.BaseFont())
	assert.NotEmpty(t, in.Problems())
}

func TestInterpreterForm(t *testing.T) {
	f1 := fixedWidthFont(t)
	res := &fakeResources{fonts: map[string]*Font{"F1": f1}}
	res.forms = map[string]*Form{
		"Fm1": {
			Content: []byte("BT /F1 10 Tf 1 0 0 1 0 700 Tm (a) Tj ET"),
			Matrix:  model.Translate(50, 0),
		},
		"Loop": {
			Content: []byte("/Loop Do"),
			Matrix:  model.Identity(),
		},
	}

	events, in := interpret(t, "/Fm1 Do BT /F1 10 Tf 1 0 0 1 0 700 Tm (b) Tj ET", res)
	require.Len(t, events, 2)
	assert.InDelta(t, 50, events[0].X, 1e-9)
	assert.InDelta(t, 0, events[1].X, 1e-9, "form matrix does not leak")
	assert.Empty(t, in.Problems())

	_, in = interpret(t, "/Loop Do", res)
	require.NotEmpty(t, in.Problems())
	assert.ErrorIs(t, in.Problems()[0], errFormDepth)
}

func TestInterpreterClipOffset(t *testing.T) {
	res := &fakeResources{fonts: map[string]*Font{"F1": fixedWidthFont(t)}}
	var events []Event
	in := NewInterpreter([4]float64{10, 20, 210, 320}, func(e Event) { events = append(events, e) })
	require.NoError(t, in.Run([]byte("BT /F1 10 Tf 1 0 0 1 60 300 Tm (a) Tj ET"), res))

	require.Len(t, events, 1)
	assert.InDelta(t, 50, events[0].X, 1e-9)
	assert.InDelta(t, 20, events[0].Baseline, 1e-9)
}

func TestEventAdvanceWidth(t *testing.T) {
	e := Event{Width: 10, WordSpacing: 2, Text: " a "}
	assert.InDelta(t, 14, e.AdvanceWidth(), 1e-9)
	assert.InDelta(t, 14, Event{X: 4, Width: 10}.Right(), 1e-9)
}
