package station

import (
	"github.com/san-kum/paintsim/internal/fluid"
	"github.com/san-kum/paintsim/internal/paint"
)

// MixerName is the reserved name of the mixing tank. The five source tanks
// are named after their pigment.
const MixerName = "mixer"

// Tank is one vessel of the station. All mutable fields are owned by the
// Station: commanded values are staged under the station command lock and
// latched at the next tick, committed state changes only inside Advance.
type Tank struct {
	name     string
	capacity float64
	initial  paint.Mixture // stock mixture used by Fill; empty for the mixer

	drain fluid.PumpedDrain
	mixer bool

	// staged commands
	cmdValve float64
	cmdPump  bool

	// committed state
	mix     paint.Mixture
	valve   float64 // opening used for the last completed tick
	pumpOn  bool
	outflow float64 // realized outflow of the last completed tick
	hex     string  // display color, retained while the tank is empty
}

func (t *Tank) Name() string      { return t.name }
func (t *Tank) Capacity() float64 { return t.capacity }
func (t *Tank) IsMixer() bool     { return t.mixer }

// TankState is the committed per-tank view exposed to collaborators.
type TankState struct {
	Name     string
	Capacity float64
	Volume   float64 // liters currently held
	Level    float64 // fill fraction, Volume/Capacity
	Valve    float64 // commanded opening (output valve for the mixer)
	PumpOn   bool    // mixer only
	Outflow  float64 // realized outflow of the last tick, liters/s
	Mixture  paint.Mixture
	Color    string // display color as #rrggbb
}

// Snapshot is a consistent view of all six tanks taken from the most
// recently committed tick, sources first, mixer last.
type Snapshot struct {
	Station string
	Tanks   []TankState
}

// Tank returns the state of the named tank.
func (s Snapshot) Tank(name string) (TankState, bool) {
	for _, ts := range s.Tanks {
		if ts.Name == name {
			return ts, true
		}
	}
	return TankState{}, false
}

// Mixer returns the mixing tank's state.
func (s Snapshot) Mixer() TankState {
	ts, _ := s.Tank(MixerName)
	return ts
}

// TotalVolume sums the liquid held across all tanks.
func (s Snapshot) TotalVolume() float64 {
	total := 0.0
	for _, ts := range s.Tanks {
		total += ts.Volume
	}
	return total
}

func (t *Tank) state(commandedValve float64, commandedPump bool) TankState {
	vol := t.mix.Volume()
	return TankState{
		Name:     t.name,
		Capacity: t.capacity,
		Volume:   vol,
		Level:    vol / t.capacity,
		Valve:    commandedValve,
		PumpOn:   commandedPump,
		Outflow:  t.outflow,
		Mixture:  t.mix,
		Color:    t.hex,
	}
}

// refreshColor re-derives the display color, keeping the previous one when
// the tank is empty since an empty tank's color is undefined.
func (t *Tank) refreshColor() {
	if c, ok := t.mix.Color(); ok {
		t.hex = c.Hex()
	}
}
