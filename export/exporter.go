package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/tsawler/pdf2xml/model"
)

// Config holds configuration options for export
type Config struct {
	// Format specifies the output format
	Format Format

	// Indent pretty prints XML output
	Indent bool

	// NFKC applies compatibility normalisation to run text, which splits
	// ligatures such as "ﬁ" into their letters
	NFKC bool

	// Charset names the output character set (for example "iso-8859-1").
	// Empty means UTF-8. Characters the charset cannot represent become
	// character references in HTML and '?' elsewhere.
	Charset string
}

// DefaultConfig returns the configuration used by NewExporter
func DefaultConfig() Config {
	return Config{
		Format: FormatXML,
		Indent: true,
	}
}

// Exporter writes documents in a configured format
type Exporter struct {
	config Config
}

// NewExporter creates an exporter with the default configuration
func NewExporter() *Exporter {
	return &Exporter{config: DefaultConfig()}
}

// NewExporterWithConfig creates an exporter with a custom configuration
func NewExporterWithConfig(config Config) *Exporter {
	return &Exporter{config: config}
}

// Config returns the exporter's configuration.
func (e *Exporter) Config() Config {
	return e.config
}

// Export writes doc to w
func (e *Exporter) Export(doc *model.Document, w io.Writer) error {
	out, charset, err := encodeWriter(w, e.config.Charset, e.config.Format)
	if err != nil {
		return err
	}

	switch e.config.Format {
	case FormatXML:
		err = e.exportXML(doc, out, charset)
	case FormatHTML:
		err = e.exportHTML(doc, out, charset)
	case FormatDump:
		err = e.exportDump(doc, out)
	default:
		err = fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("encoding output as %s: %w", charset, closeErr)
	}
	return err
}

// ExportToFile writes doc to a file
func (e *Exporter) ExportToFile(doc *model.Document, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := e.Export(doc, f); err != nil {
		return err
	}
	return f.Close()
}

// ExportToString returns doc as a string. With a charset other than UTF-8
// the string holds the encoded bytes.
func (e *Exporter) ExportToString(doc *model.Document) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(doc, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// encodeWriter wraps w so that UTF-8 written to it is converted to charset.
// It also returns the canonical name of the charset.
func encodeWriter(w io.Writer, charset string, format Format) (io.WriteCloser, string, error) {
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return nopCloser{w}, "UTF-8", nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, "", fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = charset
	}
	if name == "utf-8" {
		return nopCloser{w}, "UTF-8", nil
	}
	if format == FormatHTML {
		return transform.NewWriter(w, encoding.HTMLEscapeUnsupported(enc.NewEncoder())), name, nil
	}
	// The encoders' own replacement byte is usually SUB, which XML forbids.
	t := transform.Chain(runes.Map(substitute(enc)), enc.NewEncoder())
	return transform.NewWriter(w, t), name, nil
}

// substitute returns a mapping that turns every rune enc cannot encode
// into '?'.
func substitute(enc encoding.Encoding) func(rune) rune {
	probe := enc.NewEncoder()
	known := make(map[rune]bool)
	return func(r rune) rune {
		if r < utf8.RuneSelf {
			return r
		}
		ok, seen := known[r]
		if !seen {
			_, err := probe.String(string(r))
			ok = err == nil
			known[r] = ok
		}
		if ok {
			return r
		}
		return '?'
	}
}
