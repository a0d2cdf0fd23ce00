package paint

import (
	"testing"
)

func TestPureMixtureColor(t *testing.T) {
	for p := Pigment(0); p < NumPigments; p++ {
		m := Pure(p, 42)
		c, ok := m.Color()
		if !ok {
			t.Fatalf("%s: expected defined color", p)
		}
		want := PigmentColor(p)
		if !c.AlmostEqualRgb(want) {
			t.Errorf("%s: got %v, want %v", p, c.Hex(), want.Hex())
		}
	}
}

func TestEmptyMixtureColor(t *testing.T) {
	var m Mixture
	if _, ok := m.Color(); ok {
		t.Error("empty mixture should have undefined color")
	}
	if m.Hex() != "#000000" {
		t.Errorf("empty mixture hex: got %s", m.Hex())
	}
}

func TestCyanYellowBlendsGreen(t *testing.T) {
	m := Blend(Pure(Cyan, 10), Pure(Yellow, 10))
	c, ok := m.Color()
	if !ok {
		t.Fatal("expected defined color")
	}

	// Paint-like blend: green channel dominates both others.
	if !(c.G > c.R && c.G > c.B) {
		t.Errorf("cyan+yellow should be green-dominant, got %s", c.Hex())
	}

	// And it must stay saturated, not collapse to a gray average.
	_, sat, _ := c.Hsv()
	if sat < 0.3 {
		t.Errorf("cyan+yellow blend desaturated to %s (saturation %.2f)", c.Hex(), sat)
	}
}

func TestColorConvergesUnderRepeatedInflow(t *testing.T) {
	// A tank receiving only cyan approaches pure cyan as the cyan
	// fraction grows.
	mix := Pure(Yellow, 1)
	for i := 0; i < 200; i++ {
		mix = Blend(mix, Pure(Cyan, 5))
	}
	c, ok := mix.Color()
	if !ok {
		t.Fatal("expected defined color")
	}
	cyan := PigmentColor(Cyan)
	if c.DistanceLab(cyan) > 0.05 {
		t.Errorf("expected near-cyan, got %s (Lab distance %.3f)", c.Hex(), c.DistanceLab(cyan))
	}
}
