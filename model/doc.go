// Package model holds the page and document representation built while
// coalescing glyphs into text runs.
//
// A [Document] is an ordered list of [Page] values, one per physical page, in
// the order the parser delivered them. Each page owns its [Run] values and keeps
// them indexed by baseline so that row level passes can visit every run on a
// line without scanning the whole page:
//
//	page := model.NewPage(1, model.Rect{Width: 612, Height: 792})
//	page.Add(run)
//	for _, b := range page.Baselines() {
//	    row := page.RunsAt(b)
//	    ...
//	}
//
// # Styles
//
// Runs are only ever merged with runs of the same style. A style is the
// combination of a [Font] and the stroke and fill [Color] in effect when the
// glyph was shown. A [StyleTable] interns those combinations into a small
// [StyleID], so comparing styles is an integer comparison.
//
// # Geometry
//
// Coordinates are in page user space units measured from the top-left corner
// of the page's clip box: x grows to the right and y grows downwards, so a
// run's baseline is the distance from the top of the page.
package model
