package textrun

import (
	"github.com/tsawler/pdf2xml/glyph"
	"github.com/tsawler/pdf2xml/model"
)

// epsilon absorbs floating point noise in the incidence bounds.
const epsilon = 1e-6

// Options control how runs are built and sealed.
type Options struct {
	// WordLevel stops Seal from joining runs separated by more than the
	// looseness of their font, so runs stay words instead of whole rows.
	WordLevel bool

	// Styles interns run styles. Share one table across the pages of a
	// document so style ids are comparable between pages. Nil creates a
	// table for this page only.
	Styles *model.StyleTable

	// Metrics caches font metrics. Nil creates a cache for this page only.
	Metrics *Metrics
}

// Builder grows the runs of one open page.
type Builder struct {
	page    *model.Page
	opts    Options
	styles  *model.StyleTable
	metrics *Metrics

	// rows holds the runs of each baseline in creation order.
	rows map[float64][]*model.Run
}

// NewBuilder creates a builder that adds runs to page.
func NewBuilder(page *model.Page, opts Options) *Builder {
	b := &Builder{
		page:    page,
		opts:    opts,
		styles:  opts.Styles,
		metrics: opts.Metrics,
		rows:    make(map[float64][]*model.Run),
	}
	if b.styles == nil {
		b.styles = model.NewStyleTable()
	}
	if b.metrics == nil {
		b.metrics = NewMetrics()
	}
	return b
}

// Page returns the page being built.
func (b *Builder) Page() *model.Page {
	return b.page
}

// Metrics returns the font metric cache used by the builder.
func (b *Builder) Metrics() *Metrics {
	return b.metrics
}

// Ingest adds one glyph to the page. The glyph is appended to the first run,
// in creation order, that has its style and whose right edge it starts
// within looseness of, or prepended to one whose left edge it ends within
// looseness of. Otherwise it opens a new run.
func (b *Builder) Ingest(e glyph.Event) *model.Run {
	g := b.newRun(e)

	for _, r := range b.rows[e.Baseline] {
		if r.Style != g.Style {
			continue
		}
		loose := b.metrics.Looseness(r)
		if within(g.X, r.Right(), r.Right()+loose) {
			r.Append(g)
			return r
		}
		if within(g.Right(), r.X-loose, r.X) {
			r.Prepend(g)
			return r
		}
	}

	b.page.Add(g)
	b.rows[g.Baseline] = append(b.rows[g.Baseline], g)
	return g
}

// Seal merges and deduplicates the page's rows and marks it read-only.
func (b *Builder) Seal() *model.Page {
	var loose LoosenessFunc
	if b.opts.WordLevel {
		loose = b.metrics.Looseness
	}
	Seal(b.page, loose)
	b.rows = nil
	return b.page
}

func (b *Builder) newRun(e glyph.Event) *model.Run {
	fm := b.metrics.lookup(e.Font)
	return &model.Run{
		X:         e.X,
		Baseline:  e.Baseline,
		Width:     e.AdvanceWidth(),
		Height:    e.Height,
		Ascent:    fm.ascent / 1000 * e.VerticalScale,
		Descent:   fm.descent / 1000 * e.VerticalScale,
		PointSize: e.PointSize,
		Text:      e.Text,
		Glyphs:    1,
		Style:     b.styles.Intern(model.Style{Font: e.Font, Stroke: e.Stroke, Fill: e.Fill}),
		Font:      e.Font,
		Stroke:    e.Stroke,
		Fill:      e.Fill,
	}
}

func within(v, lo, hi float64) bool {
	return v >= lo-epsilon && v <= hi+epsilon
}
