package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/paintsim/internal/station"
)

// Stepper advances a station at a fixed time increment. One stepper owns
// the tick loop; collaborators stage commands on the station and read
// snapshots between ticks. A tick either fully commits or leaves the
// previous committed state untouched.
type Stepper struct {
	st *station.Station
	dt float64

	mu        sync.Mutex
	phase     Phase
	time      float64
	observers []Observer
	metrics   []Metric
	stop      chan struct{}
}

func New(st *station.Station, dt float64) (*Stepper, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("%w: %g", station.ErrBadTimestep, dt)
	}
	return &Stepper{st: st, dt: dt, phase: PhaseIdle}, nil
}

func (s *Stepper) AddObserver(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

func (s *Stepper) AddMetric(m Metric) {
	s.mu.Lock()
	s.metrics = append(s.metrics, m)
	s.mu.Unlock()
}

func (s *Stepper) Station() *station.Station { return s.st }
func (s *Stepper) Dt() float64               { return s.dt }

func (s *Stepper) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Time returns the accumulated simulated time.
func (s *Stepper) Time() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.time
}

// Tick advances the station by exactly one time increment and notifies
// observers and metrics with the committed snapshot.
func (s *Stepper) Tick() (station.Snapshot, []station.Overflow, error) {
	snap, overflows, err := s.st.Advance(s.dt)
	if err != nil {
		return station.Snapshot{}, nil, err
	}

	s.mu.Lock()
	s.time += s.dt
	t := s.time
	observers := s.observers
	metrics := s.metrics
	s.mu.Unlock()

	for _, m := range metrics {
		m.Observe(snap, overflows, t)
	}
	for _, o := range observers {
		o.OnTick(snap, overflows, t)
	}
	return snap, overflows, nil
}

// Run ticks the station on a wall-clock ticker of period dt until the
// context is cancelled or Stop is called. A stopped stepper can be run
// again, resuming from the committed state.
func (s *Stepper) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.phase == PhaseRunning {
		s.mu.Unlock()
		return fmt.Errorf("sim: stepper already running")
	}
	s.phase = PhaseRunning
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.phase = PhaseStopped
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(time.Duration(s.dt * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			if _, _, err := s.Tick(); err != nil {
				return err
			}
		}
	}
}

// Stop requests the running loop to halt at the next tick boundary. It is
// safe to call at any time, including when not running.
func (s *Stepper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		select {
		case <-s.stop:
		default:
			close(s.stop)
		}
	}
}

// Collect runs a fixed number of ticks back to back, without wall-clock
// pacing, and returns the full tick history with final metric values.
func (s *Stepper) Collect(ctx context.Context, ticks int) (*Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("sim: ticks must be positive, got %d", ticks)
	}

	s.mu.Lock()
	metrics := s.metrics
	s.mu.Unlock()
	for _, m := range metrics {
		m.Reset()
	}

	result := &Result{
		Records: make([]Record, 0, ticks),
		Metrics: make(map[string]float64),
	}

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		snap, overflows, err := s.Tick()
		if err != nil {
			return result, err
		}
		result.Records = append(result.Records, Record{
			Time:      s.Time(),
			Snapshot:  snap,
			Overflows: overflows,
		})
	}

	for _, m := range metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
