package export

import (
	"fmt"
	"strings"
)

// Format defines the available output formats
type Format int

const (
	// FormatXML writes the pdf2xml XML document
	FormatXML Format = iota
	// FormatHTML writes an HTML page with positioned text
	FormatHTML
	// FormatDump writes one debugging line per run
	FormatDump
)

// String returns a human-readable representation of the format
func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatHTML:
		return "html"
	case FormatDump:
		return "dump"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatXML:
		return ".xml"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xml", "":
		return FormatXML, nil
	case "html", "htm":
		return FormatHTML, nil
	case "dump", "text", "txt":
		return FormatDump, nil
	}
	return FormatXML, fmt.Errorf("unknown output format %q", s)
}
