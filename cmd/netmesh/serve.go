package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/netmesh/internal/bus"
	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/engine"
	"github.com/san-kum/netmesh/internal/panel"
	"github.com/san-kum/netmesh/internal/remote"
	"github.com/san-kum/netmesh/internal/render"
	"github.com/san-kum/netmesh/internal/server"
	"github.com/san-kum/netmesh/internal/storage"
)

var (
	addr          string
	configFile    string
	watch         bool
	snapshotPath  string
	snapshotEvery time.Duration
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the config persistence endpoint",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	f.StringVar(&configFile, "config", config.DefaultConfigFile, "config file to serve and write")
	f.BoolVar(&watch, "watch", true, "publish config-changed when the file is edited externally")
	f.StringVar(&snapshotPath, "snapshot", "", "animate a headless mesh and write it to this png periodically")
	f.DurationVar(&snapshotEvery, "snapshot-every", 2*time.Second, "snapshot interval")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	if f.Changed("addr") {
		settings.Server.Addr = addr
	}
	if f.Changed("config") {
		settings.Server.ConfigFile = configFile
	}
	if f.Changed("watch") {
		settings.Server.Watch = watch
	}

	logger := slog.Default()
	b := bus.New(logger)
	presets := openPresets()
	defer presets.Close()

	events, cancel := b.Channel(16)
	defer cancel()

	srv := server.New(server.Options{
		ConfigFile: settings.Server.ConfigFile,
		Presets:    presets,
		Bus:        b,
		Branding:   settings.Branding,
		Logger:     logger,
	})

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return srv.Run(ctx, settings.Server.Addr)
	})
	if settings.Server.Watch {
		w := server.NewWatcher(settings.Server.ConfigFile, b, logger)
		g.Go(func() error {
			return w.Watch(ctx)
		})
	}
	if snapshotPath != "" {
		g.Go(func() error {
			return runSnapshots(ctx, b)
		})
	}
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case m := <-events:
				logger.Info("message", "type", m.Type, "template", m.Template, "source", m.Source)
			}
		}
	})
	return g.Wait()
}

// runSnapshots animates a headless mesh that follows the served config and
// the bus, writing a png every snapshotEvery.
func runSnapshots(ctx context.Context, b *bus.Bus) error {
	w, h := settings.Viewport.Width, settings.Viewport.Height
	v, err := render.ParseVariant(settings.Variant)
	if err != nil {
		return err
	}
	canvas := render.NewRasterCanvas(w, h, settings.Background)
	e, err := engine.New(engine.Options{
		Width:   float64(w),
		Height:  float64(h),
		Config:  config.DefaultConfig(),
		Variant: v,
		Workers: settings.Workers,
		Canvas:  canvas,
		Logger:  slog.Default(),
	})
	if err != nil {
		return err
	}
	p := panel.New(panel.Options{
		Engine:   e,
		Source:   remote.NewFileSource(settings.Server.ConfigFile),
		Exports:  storage.New(settings.ExportDir),
		Bus:      b,
		Branding: settings.Branding,
		Logger:   slog.Default(),
	})
	defer p.Detach()
	p.Load(ctx)

	path := orbitPath(float64(w)/2, float64(h)/2, float64(min(w, h))/4, settings.FPS*4)
	var frame int
	e.AddObserver(engine.ObserverFunc(func(engine.Frame) { frame++ }))

	anim := engine.NewAnimator(tickerFunc(func() {
		e.PointerMove(path(frame))
		e.Tick()
	}), settings.FPS)
	if err := anim.Start(ctx); err != nil {
		return err
	}
	defer anim.Stop()

	t := time.NewTicker(snapshotEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			var err error
			e.Snapshot(func(engine.Frame) { err = canvas.SavePNG(snapshotPath) })
			if err != nil {
				slog.Warn("snapshot failed", "path", snapshotPath, "err", err)
			}
		}
	}
}

type tickerFunc func()

func (f tickerFunc) Tick() { f() }
