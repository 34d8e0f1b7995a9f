// Package pdf2xml turns the text of PDF files into positioned runs and
// serializes them as XML, HTML or a plain dump.
//
// Basic usage:
//
//	out, warnings, err := pdf2xml.Open("document.pdf").XML()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdf2xml.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, _, err := pdf2xml.Open("report.pdf").
//	    Password("secret").
//	    Pages(1, 2).
//	    WordLevel().
//	    Document()
//
// The model, textrun and export packages can be used directly to build and
// serialize runs from another glyph source.
package pdf2xml

// Open returns an Extractor for the PDF file at filename. Nothing is read
// until a terminal operation such as XML or Document is called; terminal
// operations close the file when they return.
//
// Example:
//
//	out, warnings, err := pdf2xml.Open("document.pdf").XML()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// Must wraps a call returning (T, error) and panics if the error is
// non-nil. It is intended for scripts and tests.
//
// Example:
//
//	count := pdf2xml.Must(pdf2xml.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText wraps a terminal operation returning (T, []Warning, error),
// discards the warnings and panics if the error is non-nil.
//
// Example:
//
//	out := pdf2xml.MustText(pdf2xml.Open("document.pdf").XML())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
