package sim

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/paintsim/internal/station"
)

func newTestStepper(t *testing.T, dt float64) *Stepper {
	t.Helper()
	st, err := station.New(station.DefaultParams())
	if err != nil {
		t.Fatalf("station: %v", err)
	}
	s, err := New(st, dt)
	if err != nil {
		t.Fatalf("stepper: %v", err)
	}
	return s
}

func TestNewRejectsBadDt(t *testing.T) {
	st, _ := station.New(station.DefaultParams())
	for _, dt := range []float64{0, -0.5} {
		if _, err := New(st, dt); err == nil {
			t.Errorf("dt=%g: expected error", dt)
		}
	}
}

func TestTickAccumulatesTime(t *testing.T) {
	g := NewWithT(t)

	s := newTestStepper(t, 0.5)
	g.Expect(s.Phase()).To(Equal(PhaseIdle))
	g.Expect(s.Time()).To(BeZero())

	for i := 0; i < 4; i++ {
		_, _, err := s.Tick()
		g.Expect(err).NotTo(HaveOccurred())
	}
	g.Expect(s.Time()).To(BeNumerically("~", 2.0, 1e-12))
}

type recordingObserver struct {
	ticks     int
	overflows int
	lastTime  float64
}

func (r *recordingObserver) OnTick(snap station.Snapshot, overflows []station.Overflow, t float64) {
	r.ticks++
	r.overflows += len(overflows)
	r.lastTime = t
}

func TestObserversSeeEveryTick(t *testing.T) {
	g := NewWithT(t)

	s := newTestStepper(t, 1.0)
	obs := &recordingObserver{}
	s.AddObserver(obs)

	g.Expect(s.Station().SetValve("cyan", 1.0)).To(Succeed())
	for i := 0; i < 5; i++ {
		s.Tick()
	}

	g.Expect(obs.ticks).To(Equal(5))
	g.Expect(obs.lastTime).To(BeNumerically("~", 5.0, 1e-12))
}

type countingMetric struct {
	name  string
	count int
}

func (m *countingMetric) Name() string { return m.name }
func (m *countingMetric) Observe(snap station.Snapshot, overflows []station.Overflow, t float64) {
	m.count++
}
func (m *countingMetric) Value() float64 { return float64(m.count) }
func (m *countingMetric) Reset()         { m.count = 0 }

func TestCollect(t *testing.T) {
	g := NewWithT(t)

	s := newTestStepper(t, 1.0)
	metric := &countingMetric{name: "ticks"}
	s.AddMetric(metric)
	g.Expect(s.Station().SetValve("cyan", 1.0)).To(Succeed())

	result, err := s.Collect(context.Background(), 10)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Records).To(HaveLen(10))
	g.Expect(result.Metrics).To(HaveKeyWithValue("ticks", 10.0))

	// Records carry the committed snapshots in order.
	first, _ := result.Records[0].Snapshot.Tank("cyan")
	last, _ := result.Records[9].Snapshot.Tank("cyan")
	g.Expect(first.Volume).To(BeNumerically("~", 80, 1e-9))
	g.Expect(last.Volume).To(BeNumerically("<", first.Volume))
}

func TestCollectRejectsBadTicks(t *testing.T) {
	s := newTestStepper(t, 1.0)
	if _, err := s.Collect(context.Background(), 0); err == nil {
		t.Error("expected error for zero ticks")
	}
}

func TestCollectHonorsCancellation(t *testing.T) {
	s := newTestStepper(t, 1.0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Collect(ctx, 100); err == nil {
		t.Error("expected context error")
	}
}

func TestRunStopResume(t *testing.T) {
	g := NewWithT(t)

	s := newTestStepper(t, 0.01)
	g.Expect(s.Station().SetValve("cyan", 1.0)).To(Succeed())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background()) }()

	g.Eventually(s.Phase).Should(Equal(PhaseRunning))
	g.Eventually(s.Time).Should(BeNumerically(">", 0))

	s.Stop()
	g.Eventually(errCh).Should(Receive(BeNil()))
	g.Expect(s.Phase()).To(Equal(PhaseStopped))

	// Resumable: a second Run continues from the committed state.
	resumed := s.Time()
	go func() { errCh <- s.Run(context.Background()) }()
	g.Eventually(s.Time).Should(BeNumerically(">", resumed))
	s.Stop()
	g.Eventually(errCh).Should(Receive(BeNil()))
}

func TestRunReturnsOnContextCancel(t *testing.T) {
	g := NewWithT(t)

	s := newTestStepper(t, 0.01)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	g.Eventually(s.Phase).Should(Equal(PhaseRunning))

	cancel()
	g.Eventually(errCh, 2*time.Second).Should(Receive(MatchError(context.Canceled)))
}
