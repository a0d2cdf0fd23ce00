package fluid

import (
	"errors"
	"fmt"
	"math"
)

// Configuration errors are fatal: a station must refuse to start on them.
var (
	ErrBadCapacity  = errors.New("fluid: capacity must be positive")
	ErrBadDischarge = errors.New("fluid: discharge coefficient must be positive")
	ErrBadPumpRate  = errors.New("fluid: pump rate must be non-negative")
)

// Drain models gravity-driven outflow through a valve at the bottom of a
// tank. Flow follows a Torricelli-like law, proportional to valve opening
// and to the square root of the liquid head, so a draining tank approaches
// empty asymptotically instead of overshooting negative.
type Drain struct {
	K float64 // discharge coefficient, flow per sqrt(volume) at full opening
}

func NewDrain(k float64) Drain {
	return Drain{K: k}
}

func (d Drain) Validate() error {
	if d.K <= 0 {
		return fmt.Errorf("%w: k=%g", ErrBadDischarge, d.K)
	}
	return nil
}

// Flow returns the commanded volumetric flow for the given level and valve
// opening, before any availability clamping. A closed valve or an empty
// tank flows exactly zero.
func (d Drain) Flow(level, opening float64) float64 {
	if opening <= 0 || level <= 0 {
		return 0
	}
	return opening * d.K * math.Sqrt(level)
}

// Step computes one time increment of drainage. The drained volume is
// capped at the available level so a tank never goes negative within a
// step, and the returned flow is the realized value (drained/dt), which is
// what a flow meter would read.
func (d Drain) Step(level, opening, dt float64) (flow, drained float64) {
	return clampStep(d.Flow(level, opening), level, dt)
}

// PumpedDrain extends Drain with a forced-outflow pump behind an output
// valve, as fitted to a mixing tank. The pump adds a constant rate term,
// gated by the output valve opening, on top of the gravity term.
type PumpedDrain struct {
	Drain
	PumpRate float64 // added flow at full output valve opening when pumping
}

func NewPumpedDrain(k, pumpRate float64) PumpedDrain {
	return PumpedDrain{Drain: NewDrain(k), PumpRate: pumpRate}
}

func (p PumpedDrain) Validate() error {
	if err := p.Drain.Validate(); err != nil {
		return err
	}
	if p.PumpRate < 0 {
		return fmt.Errorf("%w: rate=%g", ErrBadPumpRate, p.PumpRate)
	}
	return nil
}

// Flow returns the commanded flow for the pumped drain. Gravity flow is
// gated by the output valve alone; the pump term additionally requires the
// pump to be on and liquid to be present.
func (p PumpedDrain) Flow(level, opening float64, pumpOn bool) float64 {
	flow := p.Drain.Flow(level, opening)
	if pumpOn && opening > 0 && level > 0 {
		flow += p.PumpRate * opening
	}
	return flow
}

// Step computes one time increment of pumped drainage with the same
// availability clamping as Drain.Step.
func (p PumpedDrain) Step(level, opening float64, pumpOn bool, dt float64) (flow, drained float64) {
	return clampStep(p.Flow(level, opening, pumpOn), level, dt)
}

func clampStep(flow, level, dt float64) (float64, float64) {
	drained := flow * dt
	if drained > level {
		drained = level
		flow = drained / dt
	}
	return flow, drained
}
