package textrun

import (
	"fmt"

	"github.com/tsawler/pdf2xml/model"
)

// MetricFailure records a font that could not answer a metric query.
// The metric was treated as zero.
type MetricFailure struct {
	BaseFont string
	Metric   string
}

func (f MetricFailure) Error() string {
	return fmt.Sprintf("%s of font %q: %v", f.Metric, f.BaseFont, model.ErrFontMetricUnavailable)
}

// Unwrap allows errors.Is(f, model.ErrFontMetricUnavailable).
func (f MetricFailure) Unwrap() error {
	return model.ErrFontMetricUnavailable
}

type fontMetrics struct {
	space   float64
	ascent  float64
	descent float64
}

// Metrics caches the metrics of every font seen in a document. Each font is
// queried once.
type Metrics struct {
	fonts    map[model.Font]fontMetrics
	failures []MetricFailure
}

// NewMetrics creates an empty cache.
func NewMetrics() *Metrics {
	return &Metrics{fonts: make(map[model.Font]fontMetrics)}
}

func (m *Metrics) lookup(f model.Font) fontMetrics {
	if f == nil {
		return fontMetrics{}
	}
	if fm, ok := m.fonts[f]; ok {
		return fm
	}

	var fm fontMetrics
	var ok bool
	if fm.space, ok = model.Metric(f.SpaceWidth); !ok {
		m.fail(f, "space width")
	}
	if fm.ascent, ok = model.Metric(f.Ascent); !ok {
		m.fail(f, "ascent")
	}
	if fm.descent, ok = model.Metric(f.Descent); !ok {
		m.fail(f, "descent")
	}
	if fm.descent > 0 {
		fm.descent = -fm.descent
	}
	m.fonts[f] = fm
	return fm
}

func (m *Metrics) fail(f model.Font, metric string) {
	m.failures = append(m.failures, MetricFailure{BaseFont: f.BaseFont(), Metric: metric})
}

// Looseness returns the largest gap a glyph may leave to a run and still
// extend it: twice the width of a space in the run's font at its size.
func (m *Metrics) Looseness(r *model.Run) float64 {
	return 2 * m.lookup(r.Font).space / 1000 * r.PointSize
}

// Failures returns every metric query that failed, once per font and metric.
func (m *Metrics) Failures() []MetricFailure {
	return m.failures
}
