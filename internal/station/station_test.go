package station

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func testParams() Params {
	p := DefaultParams()
	p.MixerCapacity = 500
	return p
}

func TestNewStation(t *testing.T) {
	g := NewWithT(t)

	st, err := New(testParams())
	g.Expect(err).NotTo(HaveOccurred())

	names := st.TankNames()
	g.Expect(names).To(Equal([]string{"cyan", "magenta", "yellow", "black", "white", "mixer"}))

	snap := st.Snapshot()
	g.Expect(snap.Tanks).To(HaveLen(6))
	for _, ts := range snap.Tanks[:5] {
		g.Expect(ts.Volume).To(Equal(100.0))
		g.Expect(ts.Level).To(Equal(1.0))
		g.Expect(ts.Valve).To(BeZero())
	}
	g.Expect(snap.Mixer().Volume).To(BeZero())
	g.Expect(snap.Mixer().Color).To(Equal("#000000"))
}

func TestNewStationRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero source capacity", func(p *Params) { p.SourceCapacity = 0 }},
		{"negative mixer capacity", func(p *Params) { p.MixerCapacity = -10 }},
		{"zero discharge", func(p *Params) { p.SourceDischarge = 0 }},
		{"negative pump rate", func(p *Params) { p.PumpRate = -1 }},
		{"initial level above full", func(p *Params) { p.SourceLevel = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(&p)
			if _, err := New(p); err == nil {
				t.Error("expected configuration error, got nil")
			}
		})
	}
}

func TestCommandStaging(t *testing.T) {
	g := NewWithT(t)

	st, err := New(testParams())
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(st.SetValve("cyan", 0.5)).To(Succeed())
	v, err := st.Valve("cyan")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal(0.5))

	// Commands stage only: no liquid moves until a tick.
	ts, err := st.TankState("cyan")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ts.Volume).To(Equal(100.0))
	g.Expect(ts.Outflow).To(BeZero())
}

func TestSetValveRejectsOutOfRange(t *testing.T) {
	g := NewWithT(t)

	st, _ := New(testParams())
	g.Expect(st.SetValve("cyan", 0.7)).To(Succeed())

	for _, bad := range []float64{-0.1, 1.1, math.Inf(1)} {
		err := st.SetValve("cyan", bad)
		g.Expect(err).To(MatchError(ErrSetpointRange))
	}

	// Prior commanded value survives the rejected writes.
	v, _ := st.Valve("cyan")
	g.Expect(v).To(Equal(0.7))
}

func TestSetValveUnknownTank(t *testing.T) {
	st, _ := New(testParams())
	if err := st.SetValve("orange", 0.5); !errors.Is(err, ErrUnknownTank) {
		t.Errorf("expected ErrUnknownTank, got %v", err)
	}
}

func TestFillAndFlush(t *testing.T) {
	g := NewWithT(t)

	st, _ := New(testParams())

	level, err := st.Flush("cyan")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(level).To(BeZero())

	ts, _ := st.TankState("cyan")
	g.Expect(ts.Volume).To(BeZero())

	level, err = st.Fill("cyan", 0.5)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(level).To(BeNumerically("~", 0.5, 1e-12))

	ts, _ = st.TankState("cyan")
	g.Expect(ts.Volume).To(BeNumerically("~", 50, 1e-9))
	g.Expect(ts.Mixture.Cyan).To(BeNumerically("~", 50, 1e-9))
}

func TestMixerCannotBeFilled(t *testing.T) {
	st, _ := New(testParams())
	if _, err := st.Fill(MixerName, 1.0); !errors.Is(err, ErrNotRefillable) {
		t.Errorf("expected ErrNotRefillable, got %v", err)
	}
}

func TestFillRejectsBadLevel(t *testing.T) {
	st, _ := New(testParams())
	if _, err := st.Fill("cyan", 1.2); !errors.Is(err, ErrSetpointRange) {
		t.Errorf("expected ErrSetpointRange, got %v", err)
	}
}

func TestSnapshotLookup(t *testing.T) {
	g := NewWithT(t)

	st, _ := New(testParams())
	snap := st.Snapshot()

	ts, ok := snap.Tank("magenta")
	g.Expect(ok).To(BeTrue())
	g.Expect(ts.Name).To(Equal("magenta"))

	_, ok = snap.Tank("orange")
	g.Expect(ok).To(BeFalse())

	g.Expect(snap.Mixer().Name).To(Equal(MixerName))
	g.Expect(snap.TotalVolume()).To(Equal(500.0))
}
