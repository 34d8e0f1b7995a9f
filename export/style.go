package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tsawler/pdf2xml/model"
)

// FontFamily guesses the family from a PostScript font name. A trailing "MT"
// is dropped and the name is split on '+' and '-'; the second piece is the
// family. "ABCDEF+Arial-BoldItalic" gives "Arial", "Arial" gives "".
// This is a naming convention, not a rule, so odd names give odd results.
func FontFamily(baseFont string) string {
	if parts := fontNameParts(baseFont); len(parts) > 1 {
		return parts[1]
	}
	return ""
}

// FontFace returns the third piece of the font name as split by FontFamily,
// or "Normal".
func FontFace(baseFont string) string {
	if parts := fontNameParts(baseFont); len(parts) > 2 {
		return parts[2]
	}
	return "Normal"
}

func fontNameParts(name string) []string {
	name = strings.TrimSuffix(name, "MT")
	parts := strings.Split(strings.ReplaceAll(name, "+", "-"), "-")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// ColorHex formats a colour as #rrggbb. A single component is a gray level
// and is repeated for all three channels. Components are scaled with
// round(c*255) and clamped.
func ColorHex(c model.Color) string {
	comps := c.Components()
	var rgb [3]float64
	switch len(comps) {
	case 0:
	case 1:
		rgb = [3]float64{comps[0], comps[0], comps[0]}
	default:
		copy(rgb[:], comps)
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(rgb[0]), channel(rgb[1]), channel(rgb[2]))
}

func channel(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	n := int(math.Round(v * 255))
	return max(0, min(255, n))
}

// FormatNumber rounds v to three decimals and returns the shortest decimal
// representation of the result.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// sanitize replaces characters that XML 1.0 does not allow.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if validXMLChar(r) {
			return r
		}
		return '\uFFFD'
	}, s)
}

func validXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
