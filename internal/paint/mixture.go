package paint

import "math"

// Pigment identifies one of the five base paints stocked by a station.
type Pigment int

const (
	Cyan Pigment = iota
	Magenta
	Yellow
	Black
	White
	NumPigments
)

func (p Pigment) String() string {
	switch p {
	case Cyan:
		return "cyan"
	case Magenta:
		return "magenta"
	case Yellow:
		return "yellow"
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "unknown"
}

// Mixture is a volume of paint broken down by base pigment, in liters.
// Dividing each component by the total volume yields the pigment
// concentration vector, so volume-weighted concentration blending is
// plain component-wise addition of mixtures.
type Mixture struct {
	Cyan    float64
	Magenta float64
	Yellow  float64
	Black   float64
	White   float64
}

// Pure returns a single-pigment mixture of the given volume.
func Pure(p Pigment, volume float64) Mixture {
	var m Mixture
	switch p {
	case Cyan:
		m.Cyan = volume
	case Magenta:
		m.Magenta = volume
	case Yellow:
		m.Yellow = volume
	case Black:
		m.Black = volume
	case White:
		m.White = volume
	}
	return m
}

func (m Mixture) Volume() float64 {
	return m.Cyan + m.Magenta + m.Yellow + m.Black + m.White
}

func (m Mixture) Add(o Mixture) Mixture {
	return Mixture{
		Cyan:    m.Cyan + o.Cyan,
		Magenta: m.Magenta + o.Magenta,
		Yellow:  m.Yellow + o.Yellow,
		Black:   m.Black + o.Black,
		White:   m.White + o.White,
	}
}

func (m Mixture) Sub(o Mixture) Mixture {
	return Mixture{
		Cyan:    m.Cyan - o.Cyan,
		Magenta: m.Magenta - o.Magenta,
		Yellow:  m.Yellow - o.Yellow,
		Black:   m.Black - o.Black,
		White:   m.White - o.White,
	}
}

func (m Mixture) Scale(f float64) Mixture {
	return Mixture{
		Cyan:    m.Cyan * f,
		Magenta: m.Magenta * f,
		Yellow:  m.Yellow * f,
		Black:   m.Black * f,
		White:   m.White * f,
	}
}

// Concentrations returns the volume fraction of each pigment, indexed by
// Pigment. A zero-volume mixture yields all zeros.
func (m Mixture) Concentrations() [NumPigments]float64 {
	var c [NumPigments]float64
	v := m.Volume()
	if v == 0 {
		return c
	}
	c[Cyan] = m.Cyan / v
	c[Magenta] = m.Magenta / v
	c[Yellow] = m.Yellow / v
	c[Black] = m.Black / v
	c[White] = m.White / v
	return c
}

// IsValid reports whether every component is a finite, non-negative volume.
func (m Mixture) IsValid() bool {
	for _, v := range []float64{m.Cyan, m.Magenta, m.Yellow, m.Black, m.White} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Blend aggregates an existing mixture with a sequence of inflows. In
// pigment-concentration space the volume-weighted blend reduces to summing
// per-pigment volumes.
func Blend(existing Mixture, inflows ...Mixture) Mixture {
	out := existing
	for _, in := range inflows {
		out = out.Add(in)
	}
	return out
}
