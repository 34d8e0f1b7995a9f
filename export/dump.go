package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tsawler/pdf2xml/model"
)

// exportDump writes a header line per page followed by one line per run:
//
//	Page 1 @ 600x800
//	Hi there @ 72,700 w 40 : ABCDEF+Helvetica 10pt C #000000
func (e *Exporter) exportDump(doc *model.Document, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range doc.Pages {
		fmt.Fprintf(bw, "Page %d @ %sx%s\n", p.Number, FormatNumber(p.Width()), FormatNumber(p.Height()))
		for _, r := range p.ReadingOrder() {
			fmt.Fprintf(bw, "%s @ %s,%s w %s : %s %spt C %s\n",
				e.config.text(r.Text),
				FormatNumber(r.X), FormatNumber(r.Baseline),
				FormatNumber(r.Width),
				baseFont(r),
				FormatNumber(r.PointSize),
				ColorHex(r.Fill))
		}
	}
	return bw.Flush()
}
