package model

import (
	"cmp"
	"slices"
	"strings"
)

// Page holds the runs of one physical page.
//
// Every run is reachable both through Runs, in the order it was added, and
// through RunsAt for its baseline. Add and Remove keep the two views in step.
type Page struct {
	Number  int  // 1-indexed page number
	ClipBox Rect // Page content rectangle

	runs       []*Run
	byBaseline map[float64][]*Run
	sealed     bool
}

// NewPage creates an open page.
func NewPage(number int, clip Rect) *Page {
	return &Page{
		Number:     number,
		ClipBox:    clip,
		runs:       make([]*Run, 0),
		byBaseline: make(map[float64][]*Run),
	}
}

// Width returns the page width in points
func (p *Page) Width() float64 {
	return p.ClipBox.Width
}

// Height returns the page height in points
func (p *Page) Height() float64 {
	return p.ClipBox.Height
}

// Add registers a run on the page. Adding to a sealed page panics.
func (p *Page) Add(r *Run) {
	if p.sealed {
		panic("model: Add on sealed page")
	}
	p.runs = append(p.runs, r)
	p.byBaseline[r.Baseline] = append(p.byBaseline[r.Baseline], r)
}

// Remove drops r from the page and reports whether it was present.
func (p *Page) Remove(r *Run) bool {
	if p.sealed {
		panic("model: Remove on sealed page")
	}
	i := slices.Index(p.runs, r)
	if i < 0 {
		return false
	}
	p.runs = slices.Delete(p.runs, i, i+1)

	row := p.byBaseline[r.Baseline]
	if j := slices.Index(row, r); j >= 0 {
		row = slices.Delete(row, j, j+1)
	}
	if len(row) == 0 {
		delete(p.byBaseline, r.Baseline)
	} else {
		p.byBaseline[r.Baseline] = row
	}
	return true
}

// Runs returns the runs on the page in the order they were added.
// The returned slice is a copy.
func (p *Page) Runs() []*Run {
	return slices.Clone(p.runs)
}

// Len returns the number of runs on the page.
func (p *Page) Len() int {
	return len(p.runs)
}

// Baselines returns every baseline that has at least one run, in ascending
// order.
func (p *Page) Baselines() []float64 {
	out := make([]float64, 0, len(p.byBaseline))
	for b := range p.byBaseline {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

// RunsAt returns a copy of the runs positioned on baseline b.
func (p *Page) RunsAt(b float64) []*Run {
	return slices.Clone(p.byBaseline[b])
}

// SortRow orders the runs on baseline b by ascending x, keeping the existing
// order of runs that start at the same x, and returns a copy of the row.
func (p *Page) SortRow(b float64) []*Run {
	row := p.byBaseline[b]
	slices.SortStableFunc(row, func(a, c *Run) int {
		return cmp.Compare(a.X, c.X)
	})
	return slices.Clone(row)
}

// Seal marks the page read-only. Further Add or Remove calls panic.
func (p *Page) Seal() {
	p.sealed = true
}

// Sealed reports whether Seal has been called.
func (p *Page) Sealed() bool {
	return p.sealed
}

// Rows returns the runs of every baseline, top to bottom, each row ordered
// by ascending x. The page is not modified.
func (p *Page) Rows() [][]*Run {
	baselines := p.Baselines()
	rows := make([][]*Run, 0, len(baselines))
	for _, b := range baselines {
		row := slices.Clone(p.byBaseline[b])
		slices.SortStableFunc(row, func(a, c *Run) int {
			return cmp.Compare(a.X, c.X)
		})
		rows = append(rows, row)
	}
	return rows
}

// ReadingOrder returns every run on the page, row by row.
func (p *Page) ReadingOrder() []*Run {
	out := make([]*Run, 0, len(p.runs))
	for _, row := range p.Rows() {
		out = append(out, row...)
	}
	return out
}

// Text returns the text of every row on the page, top to bottom, with the runs
// of a row separated by a space.
func (p *Page) Text() string {
	var sb strings.Builder
	for _, row := range p.Rows() {
		for i, r := range row {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(r.Text)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
