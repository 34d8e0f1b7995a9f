package export

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/pdf2xml/model"
)

const pageCSS = `
body { background: #888; margin: 0; padding: 1em; }
.page { position: relative; background: #fff; margin: 0 auto 1em; overflow: hidden; }
.page span { position: absolute; white-space: pre; line-height: 1; }
`

// buildHTML renders every page as a box of its own size holding one
// absolutely positioned span per run.
func buildHTML(doc *model.Document, config Config, charset string) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := element(atom.Html)
	root.AppendChild(htmlEl)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", charset)))
	title := element(atom.Title)
	title.AppendChild(textNode(documentTitle(doc)))
	head.AppendChild(title)
	style := element(atom.Style)
	style.AppendChild(textNode(pageCSS))
	head.AppendChild(style)
	htmlEl.AppendChild(head)

	body := element(atom.Body)
	for _, p := range doc.Pages {
		div := element(atom.Div,
			attr("class", "page"),
			attr("id", fmt.Sprintf("page-%d", p.Number)),
			attr("data-number", fmt.Sprint(p.Number)),
			attr("style", fmt.Sprintf("width:%spt;height:%spt", FormatNumber(p.Width()), FormatNumber(p.Height()))),
		)
		for _, r := range p.ReadingOrder() {
			div.AppendChild(runSpan(r, config))
		}
		body.AppendChild(div)
	}
	htmlEl.AppendChild(body)
	return root
}

func runSpan(r *model.Run, config Config) *html.Node {
	base := baseFont(r)
	family, face := FontFamily(base), FontFace(base)
	box := r.Bounds()

	var css strings.Builder
	fmt.Fprintf(&css, "left:%spt;top:%spt;width:%spt;font-size:%spt;color:%s",
		FormatNumber(box.X), FormatNumber(box.Y), FormatNumber(box.Width),
		FormatNumber(r.PointSize), ColorHex(r.Fill))
	if family != "" {
		fmt.Fprintf(&css, ";font-family:'%s'", strings.ReplaceAll(family, "'", ""))
	}
	if strings.Contains(face, "Bold") {
		css.WriteString(";font-weight:bold")
	}
	if strings.Contains(face, "Italic") || strings.Contains(face, "Oblique") {
		css.WriteString(";font-style:italic")
	}

	span := element(atom.Span,
		attr("style", css.String()),
		attr("data-baseline", FormatNumber(r.Baseline)),
		attr("data-font", base),
	)
	span.AppendChild(textNode(sanitize(config.text(r.Text))))
	return span
}

func documentTitle(doc *model.Document) string {
	if doc.Metadata.Title != "" {
		return doc.Metadata.Title
	}
	return "pdf2xml"
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func (e *Exporter) exportHTML(doc *model.Document, w io.Writer, charset string) error {
	if err := html.Render(w, buildHTML(doc, e.config, charset)); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
