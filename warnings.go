package pdf2xml

import (
	"fmt"
	"strings"
)

// Warning describes a problem that did not stop extraction. The affected
// page is still produced, possibly with less text than the file contains.
type Warning struct {
	// Page is the 1-based page the warning belongs to, or 0 for warnings
	// about the whole document.
	Page int

	Message string

	// Err is the underlying error, if any.
	Err error
}

// String returns a human readable form of the warning.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// Unwrap returns the underlying error.
func (w Warning) Unwrap() error {
	return w.Err
}

func newWarning(page int, err error) Warning {
	return Warning{Page: page, Message: err.Error(), Err: err}
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
