package mask

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdf2xml/model"
)

func TestRender(t *testing.T) {
	page := model.NewPage(1, model.Rect{Width: 100, Height: 50})
	// Box from (10,20) to (30,30).
	page.Add(&model.Run{X: 10, Baseline: 28, Width: 20, Ascent: 8, Descent: -2, Text: "run"})
	// No ascent known: falls back to the height above the baseline.
	page.Add(&model.Run{X: 60, Baseline: 40, Width: 10, Height: 5, Text: "h"})
	// Zero width draws nothing.
	page.Add(&model.Run{X: 80, Baseline: 10, Height: 5, Text: ""})

	img := Render(page, 1)
	require.Equal(t, 100, img.Bounds().Dx())
	require.Equal(t, 50, img.Bounds().Dy())

	assert.EqualValues(t, 255, img.GrayAt(15, 25).Y, "inside first run")
	assert.EqualValues(t, 255, img.GrayAt(65, 37).Y, "inside second run")
	assert.EqualValues(t, 0, img.GrayAt(5, 5).Y, "background")
	assert.EqualValues(t, 0, img.GrayAt(15, 35).Y, "below first run")
	assert.EqualValues(t, 0, img.GrayAt(80, 8).Y, "empty run")
}

func TestRenderScale(t *testing.T) {
	page := model.NewPage(1, model.Rect{Width: 100, Height: 50})
	page.Add(&model.Run{X: 10, Baseline: 28, Width: 20, Ascent: 8, Descent: -2})

	img := Render(page, 2)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
	assert.EqualValues(t, 255, img.GrayAt(50, 50).Y)
	assert.EqualValues(t, 0, img.GrayAt(15, 25).Y)

	assert.Equal(t, 100, Render(page, 0).Bounds().Dx())
}

func TestRenderEmptyPage(t *testing.T) {
	img := Render(model.NewPage(1, model.Rect{}), 1)
	assert.Equal(t, 1, img.Bounds().Dx())
}

func TestWriteFile(t *testing.T) {
	page := model.NewPage(1, model.Rect{Width: 20, Height: 20})
	page.Add(&model.Run{X: 2, Baseline: 10, Width: 5, Ascent: 5})

	path := filepath.Join(t.TempDir(), "mask.png")
	require.NoError(t, WriteFile(path, page, 1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
}

func TestNilPage(t *testing.T) {
	img := Render(nil, 2)
	assert.Equal(t, 1, img.Bounds().Dx())
	assert.Equal(t, uint8(0), img.GrayAt(0, 0).Y)

	path := filepath.Join(t.TempDir(), "mask.png")
	assert.Error(t, WriteFile(path, nil, 1))
	assert.NoFileExists(t, path)
}
