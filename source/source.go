package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/reader"

	"github.com/tsawler/pdf2xml/glyph"
	"github.com/tsawler/pdf2xml/model"
)

var (
	// ErrUnreadable is returned when a file cannot be opened or parsed as a PDF.
	ErrUnreadable = errors.New("document unreadable")

	// ErrEncrypted is returned when a file is encrypted and cannot be
	// decrypted with the supplied password.
	ErrEncrypted = errors.New("document encrypted")
)

var disableConfigDir sync.Once

// Document is an open PDF file. It is not safe for concurrent use.
type Document struct {
	path      string
	decrypted string // temporary decrypted copy, removed by Close
	r         *reader.Reader

	fonts map[core.IndirectRef]*glyph.Font
}

// Open opens the PDF file at path. Encrypted files are decrypted with
// password, which may be empty for files that only restrict permissions.
func Open(path, password string) (*Document, error) {
	r, err := reader.Open(path)
	switch {
	case err == nil && r.Trailer().Get("Encrypt") == nil:
		return newDocument(path, r), nil
	case err == nil:
		r.Close()
	case !hasEncryptDict(path):
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	plain, err := decrypt(path, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncrypted, err)
	}
	r, err = reader.Open(plain)
	if err != nil {
		os.Remove(plain)
		return nil, fmt.Errorf("%w: decrypted copy: %w", ErrUnreadable, err)
	}
	doc := newDocument(path, r)
	doc.decrypted = plain
	return doc, nil
}

func newDocument(path string, r *reader.Reader) *Document {
	return &Document{
		path:  path,
		r:     r,
		fonts: make(map[core.IndirectRef]*glyph.Font),
	}
}

// decrypt writes a decrypted copy of path to a temporary file and returns
// its name.
func decrypt(path, password string) (string, error) {
	disableConfigDir.Do(api.DisableConfigDir)

	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.CreateTemp("", "pdf2xml-*.pdf")
	if err != nil {
		return "", err
	}

	conf := pdfcpu.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	conf.ValidationMode = pdfcpu.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	if err := api.Decrypt(in, out, conf); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// Encrypted reports whether the file had to be decrypted.
func (d *Document) Encrypted() bool {
	return d.decrypted != ""
}

// Close releases the file and removes any decrypted copy. Calling Close
// more than once is a no-op.
func (d *Document) Close() error {
	if d.r == nil {
		return nil
	}
	err := d.r.Close()
	d.r = nil
	if d.decrypted != "" {
		if rmErr := os.Remove(d.decrypted); err == nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = rmErr
		}
	}
	return err
}

// PageCount returns the number of pages.
func (d *Document) PageCount() (int, error) {
	n, err := d.r.PageCount()
	if err != nil {
		return 0, fmt.Errorf("%w: page tree: %w", ErrUnreadable, err)
	}
	return n, nil
}

// Metadata returns the document information dictionary.
func (d *Document) Metadata() model.Metadata {
	info, err := d.r.GetInfo()
	if err != nil || info == nil {
		return model.Metadata{}
	}
	field := func(key string) string {
		obj, err := d.r.Resolve(info.Get(key))
		if err != nil {
			return ""
		}
		if s, ok := obj.(core.String); ok {
			return textString([]byte(s))
		}
		return ""
	}
	return model.Metadata{
		Title:    field("Title"),
		Author:   field("Author"),
		Subject:  field("Subject"),
		Creator:  field("Creator"),
		Producer: field("Producer"),
	}
}

// PageInfo describes a page's geometry.
type PageInfo struct {
	Number int

	// Box is the clip box [llx lly urx ury] in default user space.
	Box [4]float64

	Rotate int
}

// ClipBox returns the page rectangle in top-down page coordinates, which
// always starts at the origin.
func (p PageInfo) ClipBox() model.Rect {
	r := model.NewRectFromCorners(p.Box[0], p.Box[1], p.Box[2], p.Box[3])
	r.X, r.Y = 0, 0
	return r
}

// Page replays the glyphs of page number (1-based) into sink. Problems that
// did not stop the page, such as a missing font, are returned as warnings.
func (d *Document) Page(number int, sink glyph.Sink) (PageInfo, []error, error) {
	info := PageInfo{Number: number}

	p, err := d.r.GetPage(number - 1)
	if err != nil {
		return info, nil, fmt.Errorf("%w: page %d: %w", ErrUnreadable, number, err)
	}
	info.Rotate = p.Rotate()

	box, err := p.CropBox()
	if err != nil {
		return info, nil, fmt.Errorf("%w: page %d has no media box: %w", ErrUnreadable, number, err)
	}
	copy(info.Box[:], box)

	var warnings []error
	resDict, err := p.Resources()
	if err != nil {
		warnings = append(warnings, fmt.Errorf("resources: %w", err))
		resDict = nil
	}
	res := &resources{doc: d, dict: resDict}

	contents, err := p.Contents()
	if err != nil {
		return info, nil, fmt.Errorf("page %d contents: %w", number, err)
	}
	var data bytes.Buffer
	for i, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		decoded, err := stream.Decode()
		if err != nil {
			warnings = append(warnings, fmt.Errorf("content stream %d: %w", i, err))
			continue
		}
		data.Write(decoded)
		data.WriteByte('\n')
	}

	in := glyph.NewInterpreter(info.Box, sink)
	if err := in.Run(data.Bytes(), res); err != nil {
		warnings = append(warnings, err)
	}
	warnings = append(warnings, in.Problems()...)
	return info, warnings, nil
}
