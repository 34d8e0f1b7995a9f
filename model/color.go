package model

// Color is a colour state with components normalised to [0,1].
//
// N is the number of meaningful components: 1 for gray and 3 for RGB.
// Colours are values, so two glyphs painted with the same components share a
// colour regardless of which operator set it.
type Color struct {
	N int
	C [3]float64
}

// Black is the initial stroke and fill colour of a page.
var Black = Gray(0)

// Gray returns a single component colour.
func Gray(g float64) Color {
	return Color{N: 1, C: [3]float64{g}}
}

// RGB returns a three component colour.
func RGB(r, g, b float64) Color {
	return Color{N: 3, C: [3]float64{r, g, b}}
}

// CMYK converts a four component colour to RGB.
func CMYK(c, m, y, k float64) Color {
	return RGB((1-c)*(1-k), (1-m)*(1-k), (1-y)*(1-k))
}

// Components returns the meaningful components of the colour.
func (c Color) Components() []float64 {
	n := c.N
	if n < 0 {
		n = 0
	}
	if n > len(c.C) {
		n = len(c.C)
	}
	out := make([]float64, n)
	copy(out, c.C[:n])
	return out
}
