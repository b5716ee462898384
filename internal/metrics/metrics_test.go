package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/netmesh/internal/mesh"
)

func TestDisplacementAtRest(t *testing.T) {
	g, _ := mesh.BuildGrid(100, 100, 50)
	d := NewDisplacement()
	d.Observe(&g, mesh.Pointer{}, 0)
	if d.Value() != 0 {
		t.Errorf("grid at rest should have zero displacement, got %v", d.Value())
	}
}

func TestDisplacementMeanAndPeak(t *testing.T) {
	g, _ := mesh.BuildGrid(100, 100, 50)
	g.Nodes[0].X += 3
	g.Nodes[0].Y += 4

	d := NewDisplacement()
	peak := NewPeakDisplacement()
	d.Observe(&g, mesh.Pointer{}, 0)
	peak.Observe(&g, mesh.Pointer{}, 0)

	want := 5 / float64(g.Len())
	if math.Abs(d.Value()-want) > 1e-12 {
		t.Errorf("expected mean %v, got %v", want, d.Value())
	}
	if peak.Value() != 5 {
		t.Errorf("expected peak 5, got %v", peak.Value())
	}

	g.Nodes[0].X, g.Nodes[0].Y = g.Nodes[0].BaseX, g.Nodes[0].BaseY
	peak.Observe(&g, mesh.Pointer{}, 0)
	if peak.Value() != 5 {
		t.Error("peak should hold until reset")
	}
	peak.Reset()
	if peak.Value() != 0 {
		t.Error("reset should clear peak")
	}
}

func TestCoverage(t *testing.T) {
	g, _ := mesh.BuildGrid(100, 100, 50)
	c := NewCoverage(1)

	c.Observe(&g, mesh.Pointer{}, 0)
	if c.Value() != 0 {
		t.Error("inactive pointer should give zero coverage")
	}

	c.Observe(&g, mesh.Pointer{X: 0, Y: 0, Active: true}, 0)
	want := 1 / float64(g.Len())
	if c.Value() != want {
		t.Errorf("expected %v, got %v", want, c.Value())
	}
	if c.Name() != "coverage" {
		t.Errorf("unexpected name %s", c.Name())
	}
}

func TestDominantFrequency(t *testing.T) {
	const dt = 0.01
	samples := make([]float64, 400)
	for i := range samples {
		samples[i] = 5 + math.Sin(2*math.Pi*2*float64(i)*dt)
	}
	p := DominantFrequency(samples, dt)
	if math.Abs(p.Frequency-2) > 1e-9 {
		t.Errorf("frequency = %v, want 2", p.Frequency)
	}
	if p.Power <= 0 {
		t.Errorf("power = %v, want > 0", p.Power)
	}

	if p := DominantFrequency([]float64{1, 1, 1, 1, 1}, dt); p.Power > 1e-9 {
		t.Errorf("flat trace should have no peak, got %+v", p)
	}
	if p := DominantFrequency([]float64{1, 2}, dt); p != (Peak{}) {
		t.Errorf("short trace = %+v, want zero", p)
	}
}
