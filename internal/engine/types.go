package engine

import (
	"errors"

	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/mesh"
)

var ErrRunning = errors.New("engine: animator already running")

// Frame is the state handed to observers after a tick. Grid is only valid
// for the duration of the callback.
type Frame struct {
	Grid       *mesh.Grid
	Pointer    mesh.Pointer
	Config     config.Config
	Time       float64
	Generation uint64
	Count      uint64
}

// Observer receives every frame. It runs under the engine lock and must not
// call back into the engine.
type Observer interface {
	OnFrame(f Frame)
}

type ObserverFunc func(Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

// Metric accumulates a scalar over frames.
type Metric interface {
	Name() string
	Observe(g *mesh.Grid, p mesh.Pointer, t float64)
	Value() float64
	Reset()
}

// Ticker advances one frame.
type Ticker interface {
	Tick()
}
