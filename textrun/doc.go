// Package textrun turns glyph events into text runs.
//
// A [Builder] receives the glyphs of one page in rendering order and grows
// runs from them: a glyph joins the first run of the same style whose left or
// right edge it touches, within a tolerance of two space widths. When the page
// ends, [Seal] merges same-style runs sharing a baseline into rows and removes
// runs drawn twice at the same position.
//
//	b := textrun.NewBuilder(page, textrun.Options{})
//	for _, e := range events {
//		b.Ingest(e)
//	}
//	b.Seal()
//
// Nothing in this package is safe for concurrent use. Independent pages or
// documents can be processed in parallel as long as they do not share a
// Builder, a StyleTable or a Metrics cache.
package textrun
