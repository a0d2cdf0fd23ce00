package station

import (
	"fmt"

	"github.com/san-kum/paintsim/internal/paint"
)

// Overflow reports liquid that would have exceeded a tank's capacity within
// one tick. The committed level is clamped at capacity and the excess
// discarded; the event carries the exact discarded volume.
type Overflow struct {
	Tank   string
	Excess float64 // liters lost this tick
}

// Advance moves the whole station forward by one tick of duration dt.
//
// Staged commands are latched first, then every tank's outflow is computed
// from the pre-tick snapshot, so results do not depend on tank order and no
// tank sees a mid-tick valve change. The new levels are committed together;
// a reader either sees the previous tick or this one, never a mixture.
func (st *Station) Advance(dt float64) (Snapshot, []Overflow, error) {
	if dt <= 0 {
		return Snapshot{}, nil, fmt.Errorf("%w: %g", ErrBadTimestep, dt)
	}

	st.cmdMu.Lock()
	for _, tk := range st.byName {
		tk.valve = tk.cmdValve
		tk.pumpOn = tk.cmdPump
	}
	st.cmdMu.Unlock()

	st.mu.Lock()
	defer st.mu.Unlock()

	// Source tanks: drain into the mixer.
	var inflow paint.Mixture
	for _, tk := range st.sources {
		vol := tk.mix.Volume()
		flow, drained := tk.drain.Drain.Step(vol, tk.valve, dt)

		var out paint.Mixture
		if drained > 0 && vol > 0 {
			out = tk.mix.Scale(drained / vol)
		}
		tk.mix = clampNonNegative(tk.mix.Sub(out))
		tk.outflow = flow
		inflow = inflow.Add(out)
	}

	// Mixer outflow uses its own pre-tick level, independent of this
	// tick's inflow.
	mixer := st.mixer
	vol := mixer.mix.Volume()
	flow, drained := mixer.drain.Step(vol, mixer.valve, mixer.pumpOn, dt)

	var out paint.Mixture
	if drained > 0 && vol > 0 {
		out = mixer.mix.Scale(drained / vol)
	}

	var overflows []Overflow
	next := clampNonNegative(paint.Blend(mixer.mix.Sub(out), inflow))
	if excess := next.Volume() - mixer.capacity; excess > 0 {
		next = next.Scale(mixer.capacity / next.Volume())
		overflows = append(overflows, Overflow{Tank: mixer.name, Excess: excess})
	}
	mixer.mix = next
	mixer.outflow = flow
	mixer.refreshColor()

	snap := Snapshot{Station: st.name, Tanks: make([]TankState, 0, len(st.sources)+1)}
	for _, tk := range st.sources {
		snap.Tanks = append(snap.Tanks, tk.state(tk.valve, tk.pumpOn))
	}
	snap.Tanks = append(snap.Tanks, mixer.state(mixer.valve, mixer.pumpOn))

	return snap, overflows, nil
}

// clampNonNegative zeroes the floating-point dust left behind when a tank
// drains exactly empty.
func clampNonNegative(m paint.Mixture) paint.Mixture {
	if m.Cyan < 0 {
		m.Cyan = 0
	}
	if m.Magenta < 0 {
		m.Magenta = 0
	}
	if m.Yellow < 0 {
		m.Yellow = 0
	}
	if m.Black < 0 {
		m.Black = 0
	}
	if m.White < 0 {
		m.White = 0
	}
	return m
}
