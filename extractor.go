package pdf2xml

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"sort"

	"github.com/tsawler/pdf2xml/export"
	"github.com/tsawler/pdf2xml/glyph"
	"github.com/tsawler/pdf2xml/mask"
	"github.com/tsawler/pdf2xml/model"
	"github.com/tsawler/pdf2xml/source"
	"github.com/tsawler/pdf2xml/textrun"
)

// Extractor provides a fluent interface for turning a PDF into runs.
// Each configuration method returns a new Extractor, so a configured
// Extractor can be shared and extended safely.
type Extractor struct {
	filename string

	// Lifecycle
	doc       *source.Document
	docOpened bool

	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:  e.filename,
		doc:       e.doc,
		docOpened: e.docOpened,
		options:   e.options.clone(),
		err:       e.err,
		warnings:  append([]Warning(nil), e.warnings...),
	}
}

// ensureDocument opens the file if it is not open yet.
func (e *Extractor) ensureDocument() error {
	if e.docOpened {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	doc, err := source.Open(e.filename, e.options.password)
	if err != nil {
		return e.fail(err)
	}
	e.doc = doc
	e.docOpened = true
	if doc.Encrypted() {
		Logger().Debug("decrypted document", "path", e.filename)
	}
	return nil
}

// fail attaches the file name to a fatal error. The error kind stays the
// one the source package chose.
func (e *Extractor) fail(err error) error {
	return &DocumentError{Path: e.filename, Err: err}
}

// Close releases the open file, if any. It is safe to call Close multiple
// times.
func (e *Extractor) Close() error {
	if e.doc == nil {
		return nil
	}
	err := e.doc.Close()
	e.doc = nil
	e.docOpened = false
	return err
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages selects the pages to extract (1-indexed). Multiple calls are
// cumulative.
//
// Example:
//
//	out, _, err := pdf2xml.Open("doc.pdf").Pages(1, 3, 5).XML()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange selects a range of pages to extract (1-indexed, inclusive).
//
// Example:
//
//	out, _, err := pdf2xml.Open("doc.pdf").PageRange(5, 10).XML()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Password sets the password used to decrypt encrypted files. Without it
// the empty user password is tried.
func (e *Extractor) Password(password string) *Extractor {
	newExt := e.clone()
	newExt.options.password = password
	return newExt
}

// WordLevel keeps runs at word granularity: runs on a row are only joined
// when the gap between them is within the looseness of their font.
func (e *Extractor) WordLevel() *Extractor {
	newExt := e.clone()
	newExt.options.wordLevel = true
	return newExt
}

// Context sets a context checked between pages. A cancelled extraction
// returns the context's error and no document.
func (e *Extractor) Context(ctx context.Context) *Extractor {
	newExt := e.clone()
	if ctx == nil {
		ctx = context.Background()
	}
	newExt.options.ctx = ctx
	return newExt
}

// ExportConfig replaces the serialization settings used by Export.
//
// Example:
//
//	cfg := export.DefaultConfig()
//	cfg.Charset = "iso-8859-1"
//	_, err := pdf2xml.Open("doc.pdf").ExportConfig(cfg).Export(os.Stdout)
func (e *Extractor) ExportConfig(config export.Config) *Extractor {
	newExt := e.clone()
	newExt.options.export = config
	return newExt
}

// Format sets the serialization format used by Export.
func (e *Extractor) Format(format export.Format) *Extractor {
	newExt := e.clone()
	newExt.options.export.Format = format
	return newExt
}

// NFKC applies compatibility normalization to serialized text.
func (e *Extractor) NFKC() *Extractor {
	newExt := e.clone()
	newExt.options.export.NFKC = true
	return newExt
}

// Charset sets the character set of serialized output, for example
// "iso-8859-1". The default is UTF-8.
func (e *Extractor) Charset(charset string) *Extractor {
	newExt := e.clone()
	newExt.options.export.Charset = charset
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// PageCount returns the number of pages in the file. It leaves the file open
// for further use on this Extractor; call Close when done.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return 0, err
	}
	return e.doc.PageCount()
}

// Document extracts the selected pages into a sealed document model.
// Warnings report problems that were recovered from, such as missing fonts
// or fonts without metrics.
//
// Example:
//
//	doc, _, err := pdf2xml.Open("doc.pdf").Document()
//	for _, page := range doc.Pages {
//	    fmt.Println(page.Text())
//	}
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	numbers, err := e.resolvePages()
	if err != nil {
		return nil, nil, err
	}

	doc := model.NewDocument()
	doc.Metadata = e.doc.Metadata()
	metrics := textrun.NewMetrics()
	warnings := append([]Warning(nil), e.warnings...)

	for _, number := range numbers {
		if err := e.options.ctx.Err(); err != nil {
			return nil, warnings, e.fail(err)
		}
		page, pageWarnings, err := e.extractPage(number, doc.Styles, metrics)
		warnings = append(warnings, pageWarnings...)
		if err != nil {
			return nil, warnings, e.fail(err)
		}
		doc.AddPage(page)
	}

	if doc.RunCount() == 0 {
		warnings = append(warnings, Warning{Message: "no text found"})
		Logger().Warn("no text found", "path", e.filename)
	}
	return doc, warnings, nil
}

// extractPage replays one page into a builder and seals it.
func (e *Extractor) extractPage(number int, styles *model.StyleTable, metrics *textrun.Metrics) (*model.Page, []Warning, error) {
	failed := len(metrics.Failures())
	page := model.NewPage(number, model.Rect{})
	b := textrun.NewBuilder(page, textrun.Options{
		WordLevel: e.options.wordLevel,
		Styles:    styles,
		Metrics:   metrics,
	})

	info, problems, err := e.doc.Page(number, func(g glyph.Event) { b.Ingest(g) })
	if err != nil {
		return nil, nil, err
	}
	page.ClipBox = info.ClipBox()
	b.Seal()

	var warnings []Warning
	for _, p := range problems {
		warnings = append(warnings, newWarning(number, p))
	}
	for _, f := range metrics.Failures()[failed:] {
		warnings = append(warnings, newWarning(number, f))
	}
	for _, w := range warnings {
		Logger().Warn(w.Message, "path", e.filename, "page", number)
	}
	Logger().Debug("page sealed", "path", e.filename, "page", number, "runs", page.Len())
	return page, warnings, nil
}

// Text returns the text of the selected pages, one line per row.
func (e *Extractor) Text() (string, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return "", warnings, err
	}
	return doc.Text(), warnings, nil
}

// Export serializes the selected pages to w using the configured format.
func (e *Extractor) Export(w io.Writer) ([]Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return warnings, err
	}
	if err := export.NewExporterWithConfig(e.options.export).Export(doc, w); err != nil {
		return warnings, e.fail(err)
	}
	return warnings, nil
}

// XML returns the selected pages as an XML document.
func (e *Extractor) XML() (string, []Warning, error) {
	return e.Format(export.FormatXML).exportString()
}

// HTML returns the selected pages as an HTML document.
func (e *Extractor) HTML() (string, []Warning, error) {
	return e.Format(export.FormatHTML).exportString()
}

// Dump returns the selected pages in the plain debugging format.
func (e *Extractor) Dump() (string, []Warning, error) {
	return e.Format(export.FormatDump).exportString()
}

func (e *Extractor) exportString() (string, []Warning, error) {
	var buf bytes.Buffer
	warnings, err := e.Export(&buf)
	if err != nil {
		return "", warnings, err
	}
	return buf.String(), warnings, nil
}

// Mask renders the text location mask of one page. One point maps to scale
// pixels.
func (e *Extractor) Mask(page int, scale float64) (*image.Gray, []Warning, error) {
	doc, warnings, err := e.Pages(page).Document()
	if err != nil {
		return nil, warnings, err
	}
	return mask.Render(doc.Page(page), scale), warnings, nil
}

// resolvePages returns the sorted, deduplicated page numbers to extract.
func (e *Extractor) resolvePages() ([]int, error) {
	pageCount, err := e.doc.PageCount()
	if err != nil {
		return nil, e.fail(err)
	}

	if len(e.options.pages) == 0 {
		numbers := make([]int, pageCount)
		for i := range numbers {
			numbers[i] = i + 1
		}
		return numbers, nil
	}

	seen := make(map[int]bool)
	var numbers []int
	for _, p := range e.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		if !seen[p] {
			seen[p] = true
			numbers = append(numbers, p)
		}
	}
	sort.Ints(numbers)
	return numbers, nil
}
