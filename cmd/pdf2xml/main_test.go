package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdf2xml/export"
	"github.com/tsawler/pdf2xml/internal/pdftest"
)

func TestParsePages(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"1", []int{1}, false},
		{"1,3-5", []int{1, 3, 4, 5}, false},
		{" 2 , 4 - 5 ", []int{2, 4, 5}, false},
		{"0", nil, true},
		{"a", nil, true},
		{"5-3", nil, true},
		{"1,", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePages(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseArgs([]string{"-p", "pw", "-format", "dump", "-words", "-j", "0", "a.pdf", "b.pdf"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "pw", opts.password)
	assert.Equal(t, export.FormatDump, opts.format)
	assert.True(t, opts.words)
	assert.Equal(t, 1, opts.jobs)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, opts.files)

	_, err = parseArgs(nil, &stderr)
	assert.EqualError(t, err, "no input files")

	_, err = parseArgs([]string{"-format", "yaml", "a.pdf"}, &stderr)
	assert.Error(t, err)
}

func sample(t *testing.T, word string) string {
	return pdftest.WriteFile(t, pdftest.Doc{Pages: []pdftest.Page{
		{
			Content: "BT /F1 12 Tf 72 700 Td (" + word + ") Tj ET",
			Fonts:   map[string]string{"F1": "Helvetica"},
		},
		{
			Content: "BT /F1 12 Tf 72 700 Td (" + word + " again) Tj ET",
			Fonts:   map[string]string{"F1": "Helvetica"},
		},
	}})
}

func TestRunWritesDocumentsInOrder(t *testing.T) {
	first, second := sample(t, "first"), sample(t, "second")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-format", "dump", "-j", "2", first, second}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Equal(t, 2, strings.Count(out, "Page 1 @ 612x792\n"))
	assert.Less(t, strings.Index(out, "first @"), strings.Index(out, "second @"))
}

func TestRunReportsFailures(t *testing.T) {
	good := sample(t, "good")
	missing := filepath.Join(t.TempDir(), "missing.pdf")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{missing, good}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "missing.pdf")
	assert.Contains(t, stdout.String(), "<![CDATA[good]]>")
}

func TestRunPagesAndMask(t *testing.T) {
	path := sample(t, "masked")
	out := filepath.Join(t.TempDir(), "mask.png")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-pages", "2", "-m", "2", "-mask-out", out, path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), `number="2"`)
	assert.NotContains(t, stdout.String(), `number="1"`)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 612, img.Bounds().Dx())
}

func TestRunMaskPageOutOfRange(t *testing.T) {
	good, other := sample(t, "kept"), sample(t, "other")
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-m", "5", "-mask-out", out, "-j", "2", good, other}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "mask page 5 out of range (1-2)")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMaskPath(t *testing.T) {
	opts := &options{maskPage: 3, files: []string{"dir/report.pdf"}}
	assert.Equal(t, "report-mask-3.png", maskPath(opts, "dir/report.pdf"))

	opts.maskOut = "out.png"
	assert.Equal(t, "out.png", maskPath(opts, "dir/report.pdf"))

	opts.files = append(opts.files, "other.pdf")
	opts.maskOut = "masks"
	assert.Equal(t, filepath.Join("masks", "report-mask-3.png"), maskPath(opts, "dir/report.pdf"))
}
