// Package export serializes a sealed document.
//
// Three formats are supported:
//
//   - [FormatXML] is the pdf2xml document: one page element per page and one
//     text element per run, with the run text as character data.
//   - [FormatHTML] renders every run as an absolutely positioned span, which
//     is handy for eyeballing the result in a browser.
//   - [FormatDump] writes one line per run for debugging.
//
// [Build] produces the XML tree without doing any I/O. An [Exporter] writes
// any format to an io.Writer, optionally normalising text and converting the
// output to another character set.
package export
