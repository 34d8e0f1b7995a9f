// Command pdf2xml writes the positioned text runs of PDF files to standard
// output.
//
// Usage:
//
//	pdf2xml [flags] file.pdf...
//
// One document is written per input, in argument order. Files that cannot
// be read or decrypted are reported on standard error and the command exits
// with status 1 once every file has been tried.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/pdf2xml"
	"github.com/tsawler/pdf2xml/export"
	"github.com/tsawler/pdf2xml/mask"
)

type options struct {
	password string
	format   export.Format
	charset  string
	nfkc     bool
	compact  bool
	words    bool
	pages    []int
	maskPage int
	maskOut  string
	scale    float64
	jobs     int
	verbose  bool
	files    []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "pdf2xml: %v\n", err)
		return 2
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	pdf2xml.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	outputs := make([][]byte, len(opts.files))
	failures := make([]error, len(opts.files))

	var g errgroup.Group
	g.SetLimit(opts.jobs)
	for i, path := range opts.files {
		i, path := i, path
		g.Go(func() error {
			var buf bytes.Buffer
			if err := convert(ctx, opts, path, &buf); err != nil {
				failures[i] = err
				return nil
			}
			outputs[i] = buf.Bytes()
			return nil
		})
	}
	g.Wait()

	status := 0
	for i := range opts.files {
		if failures[i] != nil {
			fmt.Fprintf(stderr, "pdf2xml: %v\n", failures[i])
			status = 1
			continue
		}
		stdout.Write(outputs[i])
	}
	return status
}

// convert serializes one file into w, and writes its mask if one was asked
// for.
func convert(ctx context.Context, opts *options, path string, w io.Writer) error {
	cfg := export.DefaultConfig()
	cfg.Format = opts.format
	cfg.Charset = opts.charset
	cfg.NFKC = opts.nfkc
	cfg.Indent = !opts.compact

	e := pdf2xml.Open(path).
		Password(opts.password).
		Context(ctx).
		ExportConfig(cfg).
		Pages(opts.pages...)
	if opts.words {
		e = e.WordLevel()
	}
	if opts.maskPage > 0 && len(opts.pages) > 0 {
		e = e.Pages(opts.maskPage)
	}

	// warnings are logged by the extractor
	doc, _, err := e.Document()
	if err != nil {
		return err
	}

	if opts.maskPage > 0 {
		page := doc.Page(opts.maskPage)
		if page == nil {
			return &pdf2xml.DocumentError{Path: path, Err: fmt.Errorf("mask page %d out of range (1-%d)", opts.maskPage, doc.PageCount())}
		}
		out := maskPath(opts, path)
		if err := mask.WriteFile(out, page, opts.scale); err != nil {
			return &pdf2xml.DocumentError{Path: path, Err: err}
		}
		pdf2xml.Logger().Debug("wrote mask", "path", path, "mask", out)
	}

	if err := export.NewExporterWithConfig(cfg).Export(doc, w); err != nil {
		return &pdf2xml.DocumentError{Path: path, Err: err}
	}
	return nil
}

// maskPath returns the file the mask of path is written to.
func maskPath(opts *options, path string) string {
	if opts.maskOut != "" && len(opts.files) == 1 {
		return opts.maskOut
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := fmt.Sprintf("%s-mask-%d.png", base, opts.maskPage)
	if opts.maskOut != "" {
		return filepath.Join(opts.maskOut, name)
	}
	return name
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("pdf2xml", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: pdf2xml [flags] file.pdf...")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Writes the text runs of each file to standard output.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	var format, pages string
	fs.StringVar(&opts.password, "p", "", "`password` for encrypted files")
	fs.StringVar(&format, "format", "xml", "output format: xml, html or dump")
	fs.StringVar(&opts.charset, "enc", "", "output `charset`, default UTF-8")
	fs.BoolVar(&opts.nfkc, "nfkc", false, "apply NFKC normalization to text")
	fs.BoolVar(&opts.compact, "compact", false, "do not indent XML output")
	fs.BoolVar(&opts.words, "words", false, "keep runs at word level")
	fs.StringVar(&pages, "pages", "", "pages to extract, for example 1,3-5")
	fs.IntVar(&opts.maskPage, "m", 0, "write the text mask of `page` as PNG")
	fs.StringVar(&opts.maskOut, "mask-out", "", "mask file, or directory when several files are given")
	fs.Float64Var(&opts.scale, "scale", 1, "mask pixels per point")
	fs.IntVar(&opts.jobs, "j", runtime.NumCPU(), "files converted in parallel")
	fs.BoolVar(&opts.verbose, "v", false, "log progress to standard error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	if opts.format, err = export.ParseFormat(format); err != nil {
		return nil, err
	}
	if opts.pages, err = parsePages(pages); err != nil {
		return nil, err
	}
	if opts.maskPage < 0 {
		return nil, fmt.Errorf("invalid mask page %d", opts.maskPage)
	}
	if opts.jobs < 1 {
		opts.jobs = 1
	}

	opts.files = fs.Args()
	if len(opts.files) == 0 {
		fs.Usage()
		return nil, fmt.Errorf("no input files")
	}
	return opts, nil
}

// parsePages parses a page list such as "1,3-5". An empty list selects every
// page.
func parsePages(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var pages []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || start < 1 {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || end < start {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
	}
	return pages, nil
}
