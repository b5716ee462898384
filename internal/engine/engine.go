package engine

import (
	"log/slog"
	"sync"

	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/mesh"
	"github.com/san-kum/netmesh/internal/render"
)

type Options struct {
	Width, Height float64
	Config        config.Config
	Variant       render.Variant
	Workers       int
	Canvas        render.Canvas
	Logger        *slog.Logger
}

// Engine owns one mesh: its grid, config, pointer and animation time.
// All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	grid          mesh.Grid
	cfg           config.Config
	pointer       mesh.Pointer
	time          float64
	width, height float64
	generation    uint64
	frames        uint64
	workers       int

	renderer  *render.Renderer
	canvas    render.Canvas
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(opts Options) (*Engine, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:      opts.Config,
		width:    opts.Width,
		height:   opts.Height,
		workers:  max(opts.Workers, 1),
		renderer: render.NewRenderer(opts.Variant),
		canvas:   opts.Canvas,
		logger:   logger,
	}
	if err := e.rebuild(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) AddMetric(m Metric) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metrics = append(e.metrics, m)
}

func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// SetCanvas swaps the render target. A nil canvas disables drawing.
func (e *Engine) SetCanvas(c render.Canvas) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.canvas = c
}

// Tick runs one frame: advance time, move every node toward its target,
// draw, then notify metrics and observers.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.time += mesh.TimeStep
	if e.workers > 1 {
		mesh.AdvanceParallel(e.grid.Nodes, e.pointer, e.cfg.InteractionRadius, e.cfg.InteractionType, e.time, e.workers)
	} else {
		mesh.Advance(e.grid.Nodes, e.pointer, e.cfg.InteractionRadius, e.cfg.InteractionType, e.time)
	}
	if e.canvas != nil {
		e.renderer.Render(e.canvas, &e.grid, e.pointer, e.cfg)
	}
	e.frames++

	for _, m := range e.metrics {
		m.Observe(&e.grid, e.pointer, e.time)
	}
	if len(e.observers) == 0 {
		return
	}
	f := e.frameLocked()
	for _, o := range e.observers {
		o.OnFrame(f)
	}
}

// Draw renders the current state onto c without advancing.
func (e *Engine) Draw(c render.Canvas) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderer.Render(c, &e.grid, e.pointer, e.cfg)
}

// Resize rebuilds the grid for a new viewport.
func (e *Engine) Resize(width, height float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prevW, prevH := e.width, e.height
	e.width, e.height = width, height
	if err := e.rebuild(); err != nil {
		e.width, e.height = prevW, prevH
		return err
	}
	e.logger.Debug("grid resized", "width", width, "height", height, "nodes", e.grid.Len())
	return nil
}

func (e *Engine) PointerMove(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pointer.Move(x, y)
}

func (e *Engine) PointerLeave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pointer.Leave()
}

// Apply replaces the config. The grid is rebuilt only when the spacing
// changed. An invalid config leaves the engine untouched.
func (e *Engine) Apply(cfg config.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(cfg)
}

// Modify derives the next config from the current one and applies it
// under a single lock, so concurrent edits are never lost. On error the
// engine is unchanged and next equals old.
func (e *Engine) Modify(fn func(config.Config) config.Config) (old, next config.Config, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	old = e.cfg
	next = fn(old)
	if err := e.applyLocked(next); err != nil {
		return old, old, err
	}
	return old, next, nil
}

func (e *Engine) applyLocked(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	old := e.cfg
	e.cfg = cfg
	if !cfg.NeedsRebuild(old) {
		return nil
	}
	if err := e.rebuild(); err != nil {
		e.cfg = old
		return err
	}
	return nil
}

// Rebuild discards every node and regenerates the grid at rest.
func (e *Engine) Rebuild() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rebuild()
}

func (e *Engine) rebuild() error {
	g, err := mesh.BuildGrid(e.width, e.height, e.cfg.GridDensity)
	if err != nil {
		return err
	}
	e.grid = g
	e.generation++
	for _, m := range e.metrics {
		m.Reset()
	}
	return nil
}

func (e *Engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

func (e *Engine) Pointer() mesh.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pointer
}

func (e *Engine) Time() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.time
}

// Generation increments on every grid rebuild.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

func (e *Engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

func (e *Engine) Size() (float64, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

func (e *Engine) Connections() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderer.Connections(&e.grid)
}

// Metrics returns the current value of every registered metric.
func (e *Engine) Metrics() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Snapshot calls fn with the current frame under the engine lock.
func (e *Engine) Snapshot(fn func(Frame)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.frameLocked())
}

func (e *Engine) frameLocked() Frame {
	return Frame{
		Grid:       &e.grid,
		Pointer:    e.pointer,
		Config:     e.cfg,
		Time:       e.time,
		Generation: e.generation,
		Count:      e.frames,
	}
}
