// Package pdftest writes small uncompressed PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Letter is the US letter media box.
var Letter = [4]float64{0, 0, 612, 792}

// Page describes one page of a test document.
type Page struct {
	// Content is the page content stream.
	Content string

	// MediaBox defaults to Letter.
	MediaBox [4]float64
	CropBox  *[4]float64

	// Fonts maps resource names to standard 14 base font names. Pages that
	// use the same base font share one font object.
	Fonts map[string]string

	// Forms maps resource names to form XObject content streams. Forms
	// inherit the page resources.
	Forms map[string]string

	// NoResources leaves the Resources entry out of the page dictionary.
	NoResources bool
}

// Doc describes a test document.
type Doc struct {
	Title string
	Pages []Page
}

type writer struct {
	objects [][]byte
}

func (w *writer) reserve() int {
	w.objects = append(w.objects, nil)
	return len(w.objects)
}

func (w *writer) set(num int, body string) {
	w.objects[num-1] = []byte(body)
}

func (w *writer) add(body string) int {
	num := w.reserve()
	w.set(num, body)
	return num
}

func stream(dict, data string) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

func box(b [4]float64) string {
	return fmt.Sprintf("[%g %g %g %g]", b[0], b[1], b[2], b[3])
}

// Build renders d as PDF bytes with a valid cross-reference table.
func Build(d Doc) []byte {
	w := &writer{}
	catalog := w.reserve()
	pagesNum := w.reserve()

	fontObjs := make(map[string]int)
	var kids []int
	for _, p := range d.Pages {
		var fonts, xobjects bytes.Buffer
		for _, name := range sortedKeys(p.Fonts) {
			base := p.Fonts[name]
			num, ok := fontObjs[base]
			if !ok {
				num = w.add(fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", base))
				fontObjs[base] = num
			}
			fmt.Fprintf(&fonts, " /%s %d 0 R", name, num)
		}
		for _, name := range sortedKeys(p.Forms) {
			num := w.add(stream("/Type /XObject /Subtype /Form /BBox [0 0 612 792] /Matrix [1 0 0 1 0 0]", p.Forms[name]))
			fmt.Fprintf(&xobjects, " /%s %d 0 R", name, num)
		}
		content := w.add(stream("", p.Content))

		media := p.MediaBox
		if media == [4]float64{} {
			media = Letter
		}
		dict := fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox %s", pagesNum, box(media))
		if p.CropBox != nil {
			dict += " /CropBox " + box(*p.CropBox)
		}
		if !p.NoResources {
			dict += fmt.Sprintf(" /Resources << /Font <<%s >> /XObject <<%s >> >>", fonts.String(), xobjects.String())
		}
		dict += fmt.Sprintf(" /Contents %d 0 R >>", content)
		kids = append(kids, w.add(dict))
	}

	var kidRefs bytes.Buffer
	for _, k := range kids {
		fmt.Fprintf(&kidRefs, "%d 0 R ", k)
	}
	w.set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesNum))
	w.set(pagesNum, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kidRefs.String(), len(kids)))

	info := 0
	if d.Title != "" {
		info = w.add(fmt.Sprintf("<< /Title (%s) /Producer (pdftest) >>", d.Title))
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(w.objects))
	for i, body := range w.objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n0000000000 65535 f \n", len(w.objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root %d 0 R", len(w.objects)+1, catalog)
	if info != 0 {
		fmt.Fprintf(&out, " /Info %d 0 R", info)
	}
	fmt.Fprintf(&out, " >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return out.Bytes()
}

// WriteFile builds d into a file under t.TempDir and returns its path.
func WriteFile(t testing.TB, d Doc) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(path, Build(d), 0o644); err != nil {
		t.Fatalf("writing test PDF: %v", err)
	}
	return path
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
