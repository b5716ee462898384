package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/engine"
	"github.com/san-kum/netmesh/internal/mesh"
	"github.com/san-kum/netmesh/internal/metrics"
	"github.com/san-kum/netmesh/internal/render"
	"github.com/san-kum/netmesh/internal/storage"
)

var (
	benchFrames   int
	benchCSV      string
	benchRealtime time.Duration
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark advance and render across grid densities",
		RunE:  runBench,
	}
	addViewFlags(cmd)
	f := cmd.Flags()
	f.IntVar(&benchFrames, "frames", 600, "frames per run")
	f.StringVar(&benchCSV, "csv", "", "write per-frame telemetry of the last run to this file")
	f.DurationVar(&benchRealtime, "realtime", 0, "also run the frame scheduler for this long and report the achieved fps")
	return cmd
}

// countingCanvas accepts draw calls and discards them.
type countingCanvas struct {
	w, h  float64
	calls int
}

func (c *countingCanvas) Size() (float64, float64) { return c.w, c.h }
func (c *countingCanvas) Clear() {}
func (c *countingCanvas) Line(_, _, _, _, _ float64, _ color.NRGBA) { c.calls++ }
func (c *countingCanvas) Circle(_, _, _ float64, _ color.NRGBA) { c.calls++ }
func (c *countingCanvas) Glow(_, _, _ float64, _ color.NRGBA) { c.calls++ }

func runBench(cmd *cobra.Command, args []string) error {
	p, err := configPatch(cmd)
	if err != nil {
		return err
	}
	base := config.DefaultConfig().Merge(p)
	if err := base.Validate(); err != nil {
		return err
	}
	v, err := render.ParseVariant(settings.Variant)
	if err != nil {
		return err
	}
	w, h := float64(settings.Viewport.Width), float64(settings.Viewport.Height)

	densities := []float64{80, 40, 20, 10}
	if cmd.Flags().Changed("density") {
		densities = []float64{base.GridDensity}
	}

	fmt.Printf("benchmarking %.0fx%.0f, %s, %d frames, %d workers\n\n", w, h, base.InteractionType, benchFrames, max(settings.Workers, 1))
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DENSITY\tNODES\tCONNECTIONS\tTIME\tFRAMES/SEC")

	var (
		samples []storage.Sample
		trace   []float64
	)
	for _, d := range densities {
		cfg := base
		cfg.GridDensity = d
		canvas := &countingCanvas{w: w, h: h}
		e, err := engine.New(engine.Options{
			Width: w, Height: h, Config: cfg, Variant: v,
			Workers: settings.Workers, Canvas: canvas,
		})
		if err != nil {
			return err
		}
		mean := metrics.NewDisplacement()
		e.AddMetric(mean)
		e.AddMetric(metrics.NewPeakDisplacement())
		e.AddMetric(metrics.NewCoverage(cfg.InteractionRadius))

		samples, trace = samples[:0], trace[:0]
		e.AddObserver(engine.ObserverFunc(func(f engine.Frame) {
			trace = append(trace, mean.Value())
		}))

		path := orbitPath(w/2, h/2, min(w, h)/4, benchFrames)
		var nodes int
		e.Snapshot(func(f engine.Frame) { nodes = f.Grid.Len() })

		start := time.Now()
		for i := 0; i < benchFrames; i++ {
			e.PointerMove(path(i))
			e.Tick()
			if benchCSV != "" {
				samples = append(samples, storage.Sample{Frame: e.Frames(), Time: e.Time(), Metrics: e.Metrics()})
			}
		}
		elapsed := time.Since(start)
		fmt.Fprintf(tw, "%.0f\t%d\t%d\t%v\t%.0f\n", d, nodes, e.Connections(), elapsed.Round(time.Microsecond), float64(benchFrames)/elapsed.Seconds())
	}
	tw.Flush()

	if len(trace) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(trace,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("mean displacement (last run)")))
		if peak := metrics.DominantFrequency(trace, mesh.TimeStep); peak.Power > 0 {
			fmt.Printf("dominant oscillation: %.3f cycles per time unit (%.1f frames per cycle)\n",
				peak.Frequency, 1/(peak.Frequency*mesh.TimeStep))
		}
	}

	if benchCSV != "" {
		f, err := os.Create(benchCSV)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := storage.WriteTelemetry(f, samples); err != nil {
			return err
		}
		fmt.Printf("\ntelemetry written to %s\n", benchCSV)
	}

	if benchRealtime > 0 {
		return benchScheduler(cmd.Context(), base, v, w, h)
	}
	return nil
}

// benchScheduler drives the engine from the frame scheduler and compares
// the achieved rate with the target.
func benchScheduler(ctx context.Context, cfg config.Config, v render.Variant, w, h float64) error {
	e, err := engine.New(engine.Options{Width: w, Height: h, Config: cfg, Variant: v, Workers: settings.Workers, Canvas: &countingCanvas{w: w, h: h}})
	if err != nil {
		return err
	}
	e.PointerMove(w/2, h/2)
	anim := engine.NewAnimator(e, settings.FPS)

	ctx, cancel := context.WithTimeout(ctx, benchRealtime)
	defer cancel()
	if err := anim.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	anim.Stop()

	got := float64(e.Frames()) / benchRealtime.Seconds()
	fmt.Printf("\nscheduler: %d frames in %v, %.1f fps (target %d)\n", e.Frames(), benchRealtime, got, settings.FPS)
	return nil
}
