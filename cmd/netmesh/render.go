package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/netmesh/internal/engine"
	"github.com/san-kum/netmesh/internal/render"
)

var (
	outPath   string
	format    string
	frames    int
	warmup    int
	pointerAt string
	orbit     float64
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render frames to png, gif or svg without a display",
		RunE:  runRender,
	}
	addViewFlags(cmd)
	f := cmd.Flags()
	f.StringVarP(&outPath, "out", "o", "netmesh.png", "output file")
	f.StringVar(&format, "format", "", "output format: "+strings.Join(render.FormatNames(), ", ")+" (default from --out)")
	f.IntVar(&frames, "frames", 120, "frames to record (gif)")
	f.IntVar(&warmup, "warmup", 60, "frames to run before capturing")
	f.StringVar(&pointerAt, "pointer", "", "pointer position as x,y (default: viewport centre)")
	f.Float64Var(&orbit, "orbit", 0, "move the pointer on a circle of this radius")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	name := format
	if name == "" {
		name = filepath.Ext(outPath)
	}
	fm, err := render.ParseFormat(name)
	if err != nil {
		return err
	}

	s, err := newSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	w, h := s.engine.Size()
	cx, cy := w/2, h/2
	if pointerAt != "" {
		if cx, cy, err = parsePoint(pointerAt); err != nil {
			return err
		}
	}
	path := orbitPath(cx, cy, orbit, max(frames, 1))

	step := func(i int) {
		x, y := path(i)
		s.engine.PointerMove(x, y)
		s.engine.Tick()
	}
	for i := 0; i < warmup; i++ {
		step(i)
	}

	switch {
	case fm.Vector:
		c := render.NewSVGCanvas(w, h, settings.Background)
		s.engine.Draw(c)
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := c.WriteTo(f); err != nil {
			return err
		}
	case fm.Animated:
		c := render.NewRasterCanvas(int(w), int(h), settings.Background)
		rec := render.NewGIFRecorder(settings.FPS, frames)
		s.engine.SetCanvas(c)
		s.engine.AddObserver(engine.ObserverFunc(func(engine.Frame) {
			rec.Capture(c.Image())
		}))
		for i := 0; i < frames; i++ {
			step(warmup + i)
		}
		if err := rec.Save(outPath); err != nil {
			return err
		}
	default:
		c := render.NewRasterCanvas(int(w), int(h), settings.Background)
		s.engine.Draw(c)
		if err := c.SavePNG(outPath); err != nil {
			return err
		}
	}
	fmt.Printf("wrote %s (%s, %.0fx%.0f, %d connections)\n", outPath, fm.Name, w, h, s.engine.Connections())
	return nil
}

func parsePoint(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return x, y, nil
}

// orbitPath returns the pointer position for frame i: fixed at (cx, cy)
// when r or period is not positive, otherwise one revolution of radius r
// every period frames.
func orbitPath(cx, cy, r float64, period int) func(i int) (float64, float64) {
	return func(i int) (float64, float64) {
		if r == 0 || period <= 0 {
			return cx, cy
		}
		a := 2 * math.Pi * float64(i) / float64(period)
		return cx + r*math.Cos(a), cy + r*math.Sin(a)
	}
}
