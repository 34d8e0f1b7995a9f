// Package mask draws text location masks: images the size of a page that
// are white wherever a run sits and black elsewhere.
package mask

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/vector"

	"github.com/tsawler/pdf2xml/model"
)

// Render rasterises the boxes of every run on p. One page unit maps to scale
// pixels; a scale of zero or less means 1. A nil page renders as a single
// black pixel.
func Render(p *model.Page, scale float64) *image.Gray {
	if p == nil {
		return image.NewGray(image.Rect(0, 0, 1, 1))
	}
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(p.Width() * scale))
	h := int(math.Ceil(p.Height() * scale))
	dst := image.NewGray(image.Rect(0, 0, max(w, 1), max(h, 1)))
	if w <= 0 || h <= 0 {
		return dst
	}

	z := vector.NewRasterizer(w, h)
	drawn := 0
	for _, r := range p.Runs() {
		box := r.Bounds()
		if box.IsEmpty() {
			continue
		}
		x0, y0 := float32(box.X*scale), float32(box.Y*scale)
		x1, y1 := float32(box.Right()*scale), float32(box.Bottom()*scale)
		z.MoveTo(x0, y0)
		z.LineTo(x1, y0)
		z.LineTo(x1, y1)
		z.LineTo(x0, y1)
		z.ClosePath()
		drawn++
	}
	if drawn > 0 {
		z.Draw(dst, dst.Bounds(), image.White, image.Point{})
	}
	return dst
}

// Encode writes img as a PNG.
func Encode(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding mask: %w", err)
	}
	return nil
}

// WriteFile renders the mask of p and saves it as a PNG file.
func WriteFile(path string, p *model.Page, scale float64) error {
	if p == nil {
		return errors.New("mask: no page to render")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating mask file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, Render(p, scale)); err != nil {
		return err
	}
	return f.Close()
}
