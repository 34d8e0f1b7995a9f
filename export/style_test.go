package export

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsawler/pdf2xml/model"
)

func TestFontFamilyAndFace(t *testing.T) {
	tests := []struct {
		base   string
		family string
		face   string
	}{
		{"ABCDEF+Arial-BoldItalic", "Arial", "BoldItalic"},
		{"Arial", "", "Normal"},
		{"ABCDEF+Arial-BoldMT", "Arial", "Bold"},
		{"ABCDEF+TimesNewRoman", "TimesNewRoman", "Normal"},
		{"Helvetica-Bold", "Bold", "Normal"},
		{"", "", "Normal"},
		{"ABCDEF+Font-", "Font", "Normal"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.family, FontFamily(tt.base))
			assert.Equal(t, tt.face, FontFace(tt.base))
		})
	}
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		name  string
		color model.Color
		want  string
	}{
		{"black RGB", model.RGB(0, 0, 0), "#000000"},
		{"white gray", model.Gray(1), "#ffffff"},
		{"mid gray", model.Gray(0.5), "#808080"},
		{"red", model.RGB(1, 0, 0), "#ff0000"},
		{"rounding", model.RGB(0.2, 0.4, 0.6), "#336699"},
		{"out of range", model.RGB(-1, 2, 0.999), "#00ffff"},
		{"no components", model.Color{}, "#000000"},
		{"cmyk", model.CMYK(0, 0, 0, 1), "#000000"},
	}

	pattern := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ColorHex(tt.color)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, pattern, got)
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{10, "10"},
		{1.23456, "1.235"},
		{612.0001, "612"},
		{-0.0001, "0"},
		{-3.5, "-3.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "FormatNumber(%v)", tt.in)
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{FormatXML, FormatHTML, FormatDump} {
		got, err := ParseFormat(f.String())
		assert.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)

	assert.Equal(t, ".xml", FormatXML.FileExtension())
	assert.Equal(t, ".html", FormatHTML.FileExtension())
	assert.Equal(t, ".txt", FormatDump.FileExtension())
	assert.Equal(t, "unknown", Format(42).String())
}
