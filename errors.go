package pdf2xml

import (
	"fmt"

	"github.com/tsawler/pdf2xml/model"
	"github.com/tsawler/pdf2xml/source"
)

var (
	// ErrUnreadable is returned when a file cannot be opened or decoded.
	ErrUnreadable = source.ErrUnreadable

	// ErrEncrypted is returned when a file needs a password that was not
	// supplied or did not work.
	ErrEncrypted = source.ErrEncrypted

	// ErrFontMetricUnavailable is carried by warnings about fonts that could
	// not report their metrics.
	ErrFontMetricUnavailable = model.ErrFontMetricUnavailable
)

// DocumentError attaches the offending file to a fatal error.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
