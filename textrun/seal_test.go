package textrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdf2xml/model"
)

func snapshot(p *model.Page) []model.Run {
	var out []model.Run
	for _, b := range p.Baselines() {
		for _, r := range p.RunsAt(b) {
			out = append(out, *r)
		}
	}
	return out
}

func TestCoalesceIgnoresGaps(t *testing.T) {
	f := helvetica()
	page := newPage()
	b := NewBuilder(page, Options{})
	ingestAll(b, word(f, "far", 200, 700))
	ingestAll(b, word(f, "so", 0, 700))
	require.Equal(t, 2, page.Len(), "the builder keeps distant glyphs apart")

	assert.Equal(t, 1, Coalesce(page))
	require.Equal(t, 1, page.Len())
	r := page.Runs()[0]
	assert.Equal(t, "sofar", r.Text)
	assert.InDelta(t, 0, r.X, 1e-9)
	assert.InDelta(t, 215, r.Width, 1e-9)
	assert.Len(t, page.RunsAt(700), 1)
}

func TestCoalesceKeepsStylesAndBaselinesApart(t *testing.T) {
	f, g := helvetica(), helvetica()
	page := newPage()
	b := NewBuilder(page, Options{})
	ingestAll(b, word(f, "a", 0, 700))
	ingestAll(b, word(g, "b", 50, 700))
	ingestAll(b, word(f, "c", 100, 700))
	ingestAll(b, word(f, "d", 100, 710))

	assert.Zero(t, Coalesce(page))
	assert.Equal(t, 4, page.Len())
}

func TestCoalesceWords(t *testing.T) {
	f := helvetica()
	page := newPage()
	b := NewBuilder(page, Options{WordLevel: true})
	ingestAll(b, word(f, "one", 0, 700))
	ingestAll(b, word(f, "two", 100, 700))
	b.Seal()

	assert.Equal(t, 2, page.Len())
	assert.Equal(t, "one two\n", page.Text())
}

func TestDedupe(t *testing.T) {
	f := helvetica()

	t.Run("same x and text", func(t *testing.T) {
		page := newPage()
		page.Add(&model.Run{X: 10, Baseline: 700, Width: 20, Text: "dup"})
		page.Add(&model.Run{X: 10, Baseline: 700, Width: 20, Text: "dup", Style: 1})

		assert.Equal(t, 1, Dedupe(page))
		assert.Equal(t, 1, page.Len())
		assert.Len(t, page.RunsAt(700), 1)
	})

	t.Run("offset copy survives", func(t *testing.T) {
		page := newPage()
		page.Add(&model.Run{X: 10, Baseline: 700, Text: "dup"})
		page.Add(&model.Run{X: 11, Baseline: 700, Text: "dup"})

		assert.Zero(t, Dedupe(page))
		assert.Equal(t, 2, page.Len())
	})

	t.Run("different text survives", func(t *testing.T) {
		page := newPage()
		page.Add(&model.Run{X: 10, Baseline: 700, Text: "a"})
		page.Add(&model.Run{X: 10, Baseline: 700, Text: "b"})

		assert.Zero(t, Dedupe(page))
	})

	t.Run("other baseline survives", func(t *testing.T) {
		page := newPage()
		ingestAll(NewBuilder(page, Options{}), word(f, "x", 10, 700))
		ingestAll(NewBuilder(page, Options{}), word(f, "x", 10, 701))

		assert.Zero(t, Dedupe(page))
	})
}

func TestSealIsIdempotent(t *testing.T) {
	f, shadow := helvetica(), helvetica()

	page := newPage()
	b := NewBuilder(page, Options{})
	ingestAll(b, word(f, "Title", 0, 100))
	ingestAll(b, word(shadow, "Title", 0, 100))
	ingestAll(b, word(f, "body", 0, 200))
	ingestAll(b, word(f, "text", 100, 200))
	ingestAll(b, word(shadow, "x", 300, 200))
	b.Seal()

	before := snapshot(page)
	require.NotEmpty(t, before)

	// A second pass must leave the runs untouched. Sealed pages reject
	// changes, so run the passes on a fresh page holding the same runs.
	again := newPage()
	for _, r := range page.Runs() {
		again.Add(r)
	}
	assert.Zero(t, Coalesce(again))
	assert.Zero(t, Dedupe(again))
	assert.Equal(t, before, snapshot(again))
}

func TestSealRepeatsAfterDedupe(t *testing.T) {
	f, g := helvetica(), helvetica()
	page := newPage()

	// The shadow "d" keeps the two f runs apart until it is removed.
	page.Add(&model.Run{X: 0, Baseline: 10, Width: 5, Text: "d", Glyphs: 1, Font: f, Style: 0})
	page.Add(&model.Run{X: 0, Baseline: 10, Width: 5, Text: "d", Glyphs: 1, Font: g, Style: 1})
	page.Add(&model.Run{X: 5, Baseline: 10, Width: 5, Text: "b", Glyphs: 1, Font: f, Style: 0})

	Seal(page, nil)
	require.Equal(t, 1, page.Len())
	r := page.Runs()[0]
	assert.Equal(t, "db", r.Text)
	assert.Equal(t, 2, r.Glyphs)
	assert.InDelta(t, 10, r.Width, 1e-9)

	again := newPage()
	again.Add(r)
	assert.Zero(t, Coalesce(again))
	assert.Zero(t, Dedupe(again))
}
