package engine

import (
	"errors"
	"image/color"
	"math"
	"sync"
	"testing"

	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/mesh"
	"github.com/san-kum/netmesh/internal/metrics"
	"github.com/san-kum/netmesh/internal/render"
)

type countingCanvas struct {
	clears, lines, circles int
}

func (c *countingCanvas) Size() (float64, float64) { return 0, 0 }

func (c *countingCanvas) Clear() {
	c.clears++
	c.lines, c.circles = 0, 0
}

func (c *countingCanvas) Line(_, _, _, _, _ float64, _ color.NRGBA) { c.lines++ }

func (c *countingCanvas) Circle(_, _, _ float64, _ color.NRGBA) { c.circles++ }

func (c *countingCanvas) Glow(_, _, _ float64, _ color.NRGBA) {}

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Width == 0 {
		opts.Width, opts.Height = 800, 600
	}
	if opts.Config == (config.Config{}) {
		opts.Config = config.DefaultConfig()
	}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestNewRejectsInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LineColor = "blue"
	if _, err := New(Options{Width: 100, Height: 100, Config: cfg}); !errors.Is(err, config.ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
	if _, err := New(Options{Width: 0, Height: 100, Config: config.DefaultConfig()}); !errors.Is(err, mesh.ErrInvalidViewport) {
		t.Errorf("expected ErrInvalidViewport, got %v", err)
	}
}

func TestTickAdvancesTimeAndRenders(t *testing.T) {
	c := &countingCanvas{}
	e := newEngine(t, Options{Canvas: c})

	e.Tick()
	e.Tick()

	if math.Abs(e.Time()-0.02) > 1e-12 {
		t.Errorf("expected time 0.02, got %v", e.Time())
	}
	if e.Frames() != 2 {
		t.Errorf("expected 2 frames, got %d", e.Frames())
	}
	if c.clears != 2 {
		t.Errorf("expected 2 clears, got %d", c.clears)
	}
	if c.lines != e.Connections() {
		t.Errorf("expected %d lines, got %d", e.Connections(), c.lines)
	}
	if c.circles != 374 {
		t.Errorf("expected 374 nodes, got %d", c.circles)
	}
}

func TestTickMovesNodesTowardTarget(t *testing.T) {
	e := newEngine(t, Options{})
	e.PointerMove(400, 300)
	e.Tick()

	var moved bool
	e.Snapshot(func(f Frame) {
		for _, n := range f.Grid.Nodes {
			if n.Offset() > 0 {
				moved = true
				break
			}
		}
	})
	if !moved {
		t.Error("nodes should leave rest after a tick")
	}
}

func TestApplyRebuildsOnlyOnSpacing(t *testing.T) {
	e := newEngine(t, Options{})
	gen := e.Generation()

	if _, _, err := e.Modify(merge(config.Patch{LineColor: config.String("#112233")})); err != nil {
		t.Fatal(err)
	}
	if e.Generation() != gen {
		t.Error("colour change must not rebuild")
	}

	if _, _, err := e.Modify(merge(config.Patch{GridDensity: config.Float(20)})); err != nil {
		t.Fatal(err)
	}
	if e.Generation() != gen+1 {
		t.Errorf("spacing change should rebuild, generation %d -> %d", gen, e.Generation())
	}

	var nodes int
	e.Snapshot(func(f Frame) { nodes = f.Grid.Len() })
	if nodes != (40+2)*(30+2) {
		t.Errorf("expected %d nodes, got %d", 42*32, nodes)
	}
}

func TestApplyInvalidLeavesConfig(t *testing.T) {
	e := newEngine(t, Options{})
	before := e.Config()
	_, cfg, err := e.Modify(merge(config.Patch{GridDensity: config.Float(-5)}))
	if !errors.Is(err, config.ErrInvalidDensity) {
		t.Fatalf("expected ErrInvalidDensity, got %v", err)
	}
	if cfg != before || e.Config() != before {
		t.Error("invalid update should leave config untouched")
	}
}

func merge(p config.Patch) func(config.Config) config.Config {
	return func(c config.Config) config.Config { return c.Merge(p) }
}

func TestModifyConcurrentEditsKeepEveryField(t *testing.T) {
	e := newEngine(t, Options{})
	const n = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			e.Modify(func(c config.Config) config.Config {
				c.InteractionRadius++
				return c
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			e.Modify(func(c config.Config) config.Config {
				c.GridDensity++
				return c
			})
		}
	}()
	wg.Wait()

	want := config.DefaultConfig()
	cfg := e.Config()
	if cfg.InteractionRadius != want.InteractionRadius+n || cfg.GridDensity != want.GridDensity+n {
		t.Errorf("lost edits: radius %v density %v", cfg.InteractionRadius, cfg.GridDensity)
	}
}

func TestResize(t *testing.T) {
	e := newEngine(t, Options{})
	gen := e.Generation()

	if err := e.Resize(400, 400); err != nil {
		t.Fatal(err)
	}
	if e.Generation() != gen+1 {
		t.Error("resize should rebuild")
	}
	if w, h := e.Size(); w != 400 || h != 400 {
		t.Errorf("expected 400x400, got %vx%v", w, h)
	}

	if err := e.Resize(-1, 10); !errors.Is(err, mesh.ErrInvalidViewport) {
		t.Errorf("expected ErrInvalidViewport, got %v", err)
	}
	if w, _ := e.Size(); w != 400 {
		t.Error("failed resize should keep previous size")
	}
}

func TestPointerLeave(t *testing.T) {
	e := newEngine(t, Options{})
	e.PointerMove(10, 20)
	if p := e.Pointer(); !p.Active || p.X != 10 || p.Y != 20 {
		t.Errorf("unexpected pointer %+v", p)
	}
	e.PointerLeave()
	if e.Pointer().Active {
		t.Error("pointer should be inactive after leave")
	}
}

func TestObserversAndMetrics(t *testing.T) {
	e := newEngine(t, Options{})
	disp := metrics.NewDisplacement()
	e.AddMetric(disp)

	var frames []uint64
	e.AddObserver(ObserverFunc(func(f Frame) {
		frames = append(frames, f.Count)
	}))

	e.PointerMove(400, 300)
	for i := 0; i < 3; i++ {
		e.Tick()
	}

	if len(frames) != 3 || frames[2] != 3 {
		t.Errorf("unexpected observed frames %v", frames)
	}
	if e.Metrics()["displacement"] <= 0 {
		t.Error("displacement should be positive with an active pointer")
	}
}

func TestParallelEngineMatchesSequential(t *testing.T) {
	seq := newEngine(t, Options{Workers: 1})
	par := newEngine(t, Options{Workers: 4})
	for _, e := range []*Engine{seq, par} {
		e.PointerMove(321, 123)
		for i := 0; i < 20; i++ {
			e.Tick()
		}
	}

	var a, b []mesh.Node
	seq.Snapshot(func(f Frame) { a = append(a, f.Grid.Nodes...) })
	par.Snapshot(func(f Frame) { b = append(b, f.Grid.Nodes...) })
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("node %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestConcurrentInput(t *testing.T) {
	e := newEngine(t, Options{Canvas: render.NewSVGCanvas(800, 600, "")})
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			e.Tick()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			e.PointerMove(float64(i*10), float64(i*5))
		}
		e.PointerLeave()
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			e.Resize(float64(400+i*100), 300)
		}
	}()
	wg.Wait()

	if e.Frames() != 50 {
		t.Errorf("expected 50 frames, got %d", e.Frames())
	}
}

func BenchmarkTick(b *testing.B) {
	e, _ := New(Options{Width: 1920, Height: 1080, Config: config.DefaultConfig()})
	e.PointerMove(960, 540)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Tick()
	}
}
