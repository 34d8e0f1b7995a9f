package export

import (
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdf2xml/model"
)

// XMLDocument is the root element of the pdf2xml output.
type XMLDocument struct {
	XMLName xml.Name  `xml:"pdf2xml"`
	Pages   []XMLPage `xml:"page"`
}

// XMLPage describes one page.
type XMLPage struct {
	Width  string    `xml:"width,attr"`
	Height string    `xml:"height,attr"`
	Number int       `xml:"number,attr"`
	Texts  []XMLText `xml:"text"`
}

// XMLText describes one run. Top is the run's baseline.
type XMLText struct {
	Top    string `xml:"top,attr"`
	Left   string `xml:"left,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
	Size   string `xml:"size,attr"`
	Family string `xml:"family,attr"`
	Face   string `xml:"face,attr"`
	Color  string `xml:"color,attr"`
	Text   string `xml:",cdata"`
}

// Build converts doc to its XML tree. Pages keep their order; the runs of a
// page are listed row by row. doc is not modified.
func Build(doc *model.Document, config Config) *XMLDocument {
	out := &XMLDocument{Pages: make([]XMLPage, 0, len(doc.Pages))}
	for _, p := range doc.Pages {
		page := XMLPage{
			Width:  FormatNumber(p.Width()),
			Height: FormatNumber(p.Height()),
			Number: p.Number,
		}
		for _, r := range p.ReadingOrder() {
			page.Texts = append(page.Texts, buildText(r, config))
		}
		out.Pages = append(out.Pages, page)
	}
	return out
}

func buildText(r *model.Run, config Config) XMLText {
	base := baseFont(r)
	return XMLText{
		Top:    FormatNumber(r.Baseline),
		Left:   FormatNumber(r.X),
		Width:  FormatNumber(r.Width),
		Height: FormatNumber(r.Bounds().Height),
		Size:   FormatNumber(r.PointSize),
		Family: sanitize(FontFamily(base)),
		Face:   sanitize(FontFace(base)),
		Color:  ColorHex(r.Fill),
		Text:   sanitize(config.text(r.Text)),
	}
}

func baseFont(r *model.Run) string {
	if r.Font == nil {
		return ""
	}
	return r.Font.BaseFont()
}

func (c Config) text(s string) string {
	if c.NFKC {
		return norm.NFKC.String(s)
	}
	return s
}

func (e *Exporter) exportXML(doc *model.Document, w io.Writer, charset string) error {
	if _, err := fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"%s\"?>\n", charset); err != nil {
		return fmt.Errorf("writing XML header: %w", err)
	}

	enc := xml.NewEncoder(w)
	if e.config.Indent {
		enc.Indent("", "  ")
	}
	if err := enc.Encode(Build(doc, e.config)); err != nil {
		return fmt.Errorf("encoding XML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding XML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
