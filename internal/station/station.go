package station

import (
	"fmt"
	"sync"

	"github.com/san-kum/paintsim/internal/fluid"
	"github.com/san-kum/paintsim/internal/paint"
)

// Params configures a station. The five source tanks share the same
// geometry; the mixer has its own, typically larger, vessel plus a pump.
type Params struct {
	Name            string
	SourceCapacity  float64
	SourceDischarge float64
	SourceLevel     float64 // initial fill fraction of each source tank
	MixerCapacity   float64
	MixerDischarge  float64
	PumpRate        float64
}

func DefaultParams() Params {
	return Params{
		Name:            "station1",
		SourceCapacity:  100,
		SourceDischarge: 2.0,
		SourceLevel:     1.0,
		MixerCapacity:   500,
		MixerDischarge:  2.0,
		PumpRate:        5.0,
	}
}

func (p Params) validate() error {
	if p.SourceCapacity <= 0 || p.MixerCapacity <= 0 {
		return fmt.Errorf("%w: source=%g mixer=%g", fluid.ErrBadCapacity, p.SourceCapacity, p.MixerCapacity)
	}
	if p.SourceLevel < 0 || p.SourceLevel > 1 {
		return fmt.Errorf("%w: initial level %g", ErrSetpointRange, p.SourceLevel)
	}
	if err := fluid.NewDrain(p.SourceDischarge).Validate(); err != nil {
		return err
	}
	return fluid.NewPumpedDrain(p.MixerDischarge, p.PumpRate).Validate()
}

// Station owns the six tanks and the fixed flow graph: every source tank
// drains into the mixer, the mixer drains out of the system. It is the only
// component that mutates tank state; collaborators read snapshots and stage
// commands.
type Station struct {
	name    string
	sources []*Tank
	mixer   *Tank
	byName  map[string]*Tank

	mu    sync.RWMutex // guards committed tank state
	cmdMu sync.Mutex   // guards staged commands
}

// New builds a station from validated parameters. Malformed parameters are
// fatal: no station is returned and the simulation must not start.
func New(p Params) (*Station, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	st := &Station{
		name:   p.Name,
		byName: make(map[string]*Tank),
	}

	for pig := paint.Pigment(0); pig < paint.NumPigments; pig++ {
		stock := paint.Pure(pig, p.SourceCapacity)
		tk := &Tank{
			name:     pig.String(),
			capacity: p.SourceCapacity,
			initial:  stock,
			drain:    fluid.PumpedDrain{Drain: fluid.NewDrain(p.SourceDischarge)},
			mix:      stock.Scale(p.SourceLevel),
			hex:      paint.PigmentColor(pig).Hex(),
		}
		st.sources = append(st.sources, tk)
		st.byName[tk.name] = tk
	}

	st.mixer = &Tank{
		name:     MixerName,
		capacity: p.MixerCapacity,
		drain:    fluid.NewPumpedDrain(p.MixerDischarge, p.PumpRate),
		mixer:    true,
		hex:      "#000000",
	}
	st.byName[MixerName] = st.mixer

	return st, nil
}

func (st *Station) Name() string { return st.name }

// TankNames lists all tank names, sources first, mixer last.
func (st *Station) TankNames() []string {
	names := make([]string, 0, len(st.sources)+1)
	for _, tk := range st.sources {
		names = append(names, tk.name)
	}
	return append(names, MixerName)
}

func (st *Station) lookup(name string) (*Tank, error) {
	tk, ok := st.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTank, name)
	}
	return tk, nil
}

// SetValve stages a valve opening for the named tank; for the mixer this is
// the output valve. The value takes effect at the next tick boundary.
// Out-of-range setpoints are rejected and the prior command kept.
func (st *Station) SetValve(name string, opening float64) error {
	if opening < 0 || opening > 1 {
		return fmt.Errorf("%w: valve %g", ErrSetpointRange, opening)
	}
	tk, err := st.lookup(name)
	if err != nil {
		return err
	}
	st.cmdMu.Lock()
	tk.cmdValve = opening
	st.cmdMu.Unlock()
	return nil
}

// Valve reads back the currently commanded opening for the named tank.
func (st *Station) Valve(name string) (float64, error) {
	tk, err := st.lookup(name)
	if err != nil {
		return 0, err
	}
	st.cmdMu.Lock()
	defer st.cmdMu.Unlock()
	return tk.cmdValve, nil
}

// SetPump stages the mixer pump on or off, applied at the next tick.
func (st *Station) SetPump(on bool) {
	st.cmdMu.Lock()
	st.mixer.cmdPump = on
	st.cmdMu.Unlock()
}

// PumpOn reads back the commanded pump state.
func (st *Station) PumpOn() bool {
	st.cmdMu.Lock()
	defer st.cmdMu.Unlock()
	return st.mixer.cmdPump
}

// Fill restocks the named tank to the given fraction of capacity from its
// stock mixture and returns the new fill level. The mixer has no stock and
// cannot be filled. Fill applies immediately, atomically with respect to
// ticks and snapshots.
func (st *Station) Fill(name string, level float64) (float64, error) {
	if level < 0 || level > 1 {
		return 0, fmt.Errorf("%w: fill level %g", ErrSetpointRange, level)
	}
	tk, err := st.lookup(name)
	if err != nil {
		return 0, err
	}
	if tk.initial.Volume() == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotRefillable, name)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	tk.mix = tk.initial.Scale(level * tk.capacity / tk.initial.Volume())
	tk.refreshColor()
	return tk.mix.Volume() / tk.capacity, nil
}

// Flush empties the named tank immediately and returns the new level (0).
func (st *Station) Flush(name string) (float64, error) {
	tk, err := st.lookup(name)
	if err != nil {
		return 0, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	tk.mix = paint.Mixture{}
	tk.outflow = 0
	return 0, nil
}

// Snapshot returns a consistent view of all tanks from the most recently
// committed tick. It never observes a half-applied tick.
func (st *Station) Snapshot() Snapshot {
	st.cmdMu.Lock()
	type cmd struct {
		valve float64
		pump  bool
	}
	cmds := make(map[string]cmd, len(st.byName))
	for name, tk := range st.byName {
		cmds[name] = cmd{tk.cmdValve, tk.cmdPump}
	}
	st.cmdMu.Unlock()

	st.mu.RLock()
	defer st.mu.RUnlock()

	snap := Snapshot{Station: st.name, Tanks: make([]TankState, 0, len(st.sources)+1)}
	for _, tk := range st.sources {
		c := cmds[tk.name]
		snap.Tanks = append(snap.Tanks, tk.state(c.valve, c.pump))
	}
	c := cmds[MixerName]
	snap.Tanks = append(snap.Tanks, st.mixer.state(c.valve, c.pump))
	return snap
}

// TankState returns the committed state of a single tank.
func (st *Station) TankState(name string) (TankState, error) {
	if _, err := st.lookup(name); err != nil {
		return TankState{}, err
	}
	ts, _ := st.Snapshot().Tank(name)
	return ts, nil
}
