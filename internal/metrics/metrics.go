package metrics

import (
	"math"

	"github.com/san-kum/paintsim/internal/station"
)

// MassBalance tracks the worst per-tick conservation residual: liquid may
// only leave through the mixer drain or reported overflow, so the residual
// should stay at floating-point noise for any healthy run.
type MassBalance struct {
	name      string
	prevTotal float64
	prevTime  float64
	started   bool
	maxError  float64
}

func NewMassBalance() *MassBalance {
	return &MassBalance{name: "mass_balance"}
}

func (m *MassBalance) Name() string { return m.name }

func (m *MassBalance) Observe(snap station.Snapshot, overflows []station.Overflow, t float64) {
	total := snap.TotalVolume()
	if !m.started {
		m.prevTotal = total
		m.prevTime = t
		m.started = true
		return
	}

	dt := t - m.prevTime
	excess := 0.0
	for _, ov := range overflows {
		excess += ov.Excess
	}
	residual := m.prevTotal - total - snap.Mixer().Outflow*dt - excess
	m.maxError = math.Max(m.maxError, math.Abs(residual))

	m.prevTotal = total
	m.prevTime = t
}

func (m *MassBalance) Value() float64 { return m.maxError }

func (m *MassBalance) Reset() {
	m.prevTotal = 0
	m.prevTime = 0
	m.started = false
	m.maxError = 0
}

// Overflows counts overflow events and accumulates the discarded volume.
type Overflows struct {
	name   string
	count  int
	volume float64
}

func NewOverflows() *Overflows {
	return &Overflows{name: "overflow_volume"}
}

func (o *Overflows) Name() string { return o.name }

func (o *Overflows) Observe(snap station.Snapshot, overflows []station.Overflow, t float64) {
	for _, ov := range overflows {
		o.count++
		o.volume += ov.Excess
	}
}

func (o *Overflows) Count() int     { return o.count }
func (o *Overflows) Value() float64 { return o.volume }

func (o *Overflows) Reset() {
	o.count = 0
	o.volume = 0
}

// Dispensed accumulates the volume pumped out of the mixer, the station's
// useful output.
type Dispensed struct {
	name     string
	prevTime float64
	started  bool
	total    float64
}

func NewDispensed() *Dispensed {
	return &Dispensed{name: "dispensed"}
}

func (d *Dispensed) Name() string { return d.name }

func (d *Dispensed) Observe(snap station.Snapshot, overflows []station.Overflow, t float64) {
	if d.started {
		d.total += snap.Mixer().Outflow * (t - d.prevTime)
	}
	d.started = true
	d.prevTime = t
}

func (d *Dispensed) Value() float64 { return d.total }

func (d *Dispensed) Reset() {
	d.prevTime = 0
	d.started = false
	d.total = 0
}
