package textrun

import (
	"slices"

	"github.com/tsawler/pdf2xml/model"
)

// LoosenessFunc returns the gap tolerated after a run.
type LoosenessFunc func(*model.Run) float64

// Coalesce merges neighbouring runs of the same style on every baseline,
// however far apart they are, and returns the number of merges.
func Coalesce(p *model.Page) int {
	return coalesce(p, nil)
}

// CoalesceWords is like Coalesce but only merges runs whose gap is within
// loose of the left run.
func CoalesceWords(p *model.Page, loose LoosenessFunc) int {
	return coalesce(p, loose)
}

func coalesce(p *model.Page, loose LoosenessFunc) int {
	merged := 0
	for _, b := range p.Baselines() {
		row := p.SortRow(b)
		for i := 0; i+1 < len(row); {
			cur, next := row[i], row[i+1]
			if !cur.SameStyle(next) || (loose != nil && next.X > cur.Right()+loose(cur)+epsilon) {
				i++
				continue
			}
			cur.Append(next)
			p.Remove(next)
			row = slices.Delete(row, i+1, i+2)
			merged++
		}
	}
	return merged
}

// Dedupe removes the second of two neighbouring runs on a baseline that start
// at the same x with the same text, and returns the number removed. Copies
// drawn at an offset, such as drop shadows, are left alone.
func Dedupe(p *model.Page) int {
	removed := 0
	for _, b := range p.Baselines() {
		row := p.SortRow(b)
		for i := 0; i+1 < len(row); {
			cur, next := row[i], row[i+1]
			if cur.X != next.X || cur.Text != next.Text {
				i++
				continue
			}
			p.Remove(next)
			row = slices.Delete(row, i+1, i+2)
			removed++
		}
	}
	return removed
}

// Seal coalesces and deduplicates p until neither changes it, then marks it
// read-only. A nil loose coalesces whole rows; otherwise runs are only joined
// across gaps loose allows.
func Seal(p *model.Page, loose LoosenessFunc) {
	for {
		coalesce(p, loose)
		if Dedupe(p) == 0 {
			break
		}
	}
	p.Seal()
}
