package paint

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Display colors of the five base pigments.
var palette = [NumPigments]colorful.Color{
	Cyan:    {R: 0, G: 1, B: 1},
	Magenta: {R: 1, G: 0, B: 1},
	Yellow:  {R: 1, G: 1, B: 0},
	Black:   {R: 0, G: 0, B: 0},
	White:   {R: 1, G: 1, B: 1},
}

// PigmentColor returns the display color of a pure pigment.
func PigmentColor(p Pigment) colorful.Color {
	if p < 0 || p >= NumPigments {
		return colorful.Color{}
	}
	return palette[p]
}

// Color maps a mixture to its display color by blending the base pigment
// colors in CIE Lab space, weighted by concentration. Lab averaging keeps
// blends paint-like (cyan plus yellow lands on green rather than the gray a
// raw RGB average produces). ok is false for a zero-volume mixture, whose
// color is undefined.
func (m Mixture) Color() (c colorful.Color, ok bool) {
	if m.Volume() <= 0 {
		return colorful.Color{}, false
	}
	conc := m.Concentrations()
	var l, a, b float64
	for p := Pigment(0); p < NumPigments; p++ {
		if conc[p] == 0 {
			continue
		}
		pl, pa, pb := palette[p].Lab()
		l += conc[p] * pl
		a += conc[p] * pa
		b += conc[p] * pb
	}
	return colorful.Lab(l, a, b).Clamped(), true
}

// Hex returns the mixture's display color as "#rrggbb", or "#000000" for an
// empty mixture.
func (m Mixture) Hex() string {
	c, ok := m.Color()
	if !ok {
		return "#000000"
	}
	return c.Hex()
}
