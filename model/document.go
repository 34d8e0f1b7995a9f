package model

import "strings"

// Metadata contains document-level information
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
}

// Document is the ordered list of sealed pages of one input file.
type Document struct {
	Metadata Metadata
	Pages    []*Page

	// Styles interns the styles of every run in the document.
	Styles *StyleTable
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Pages:  make([]*Page, 0),
		Styles: NewStyleTable(),
	}
}

// AddPage appends a page. Pages keep the number they were created with.
func (d *Document) AddPage(page *Page) {
	d.Pages = append(d.Pages, page)
}

// Page returns the page with the given number, or nil.
func (d *Document) Page(number int) *Page {
	for _, p := range d.Pages {
		if p.Number == number {
			return p
		}
	}
	return nil
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// RunCount returns the number of runs across all pages.
func (d *Document) RunCount() int {
	n := 0
	for _, p := range d.Pages {
		n += p.Len()
	}
	return n
}

// Text returns the text of every page separated by blank lines.
func (d *Document) Text() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}
