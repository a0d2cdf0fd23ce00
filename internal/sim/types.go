package sim

import "github.com/san-kum/paintsim/internal/station"

// Phase is the stepper lifecycle state.
type Phase int

const (
	PhaseIdle    Phase = iota // no ticks taken yet
	PhaseRunning              // periodic ticking in progress
	PhaseStopped              // halted, resumable
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseStopped:
		return "stopped"
	}
	return "unknown"
}

// Observer receives every committed tick.
type Observer interface {
	OnTick(snap station.Snapshot, overflows []station.Overflow, t float64)
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(snap station.Snapshot, overflows []station.Overflow, t float64)
	Value() float64
	Reset()
}

// Record is one committed tick of a collected run.
type Record struct {
	Time      float64
	Snapshot  station.Snapshot
	Overflows []station.Overflow
}

// Result holds a full collected run.
type Result struct {
	Records []Record
	Metrics map[string]float64
}
