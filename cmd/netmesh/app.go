package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/san-kum/netmesh/internal/bus"
	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/engine"
	"github.com/san-kum/netmesh/internal/gui"
	"github.com/san-kum/netmesh/internal/panel"
	"github.com/san-kum/netmesh/internal/preset"
	"github.com/san-kum/netmesh/internal/remote"
	"github.com/san-kum/netmesh/internal/render"
	"github.com/san-kum/netmesh/internal/storage"
	"github.com/san-kum/netmesh/internal/viz"
)

// session wires one engine to its panel, preset registry and bus.
type session struct {
	engine  *engine.Engine
	panel   *panel.Panel
	presets *preset.Registry
	bus     *bus.Bus
}

func (s *session) Close() {
	s.panel.Detach()
	if err := s.presets.Close(); err != nil {
		slog.Warn("closing preset store", "err", err)
	}
}

// openPresets opens the SQLite preset store, falling back to an in-memory
// store when the database cannot be opened.
func openPresets() *preset.Registry {
	store, err := preset.OpenSQLite(settings.PresetDB)
	if err != nil {
		slog.Warn("preset store unavailable, using memory", "path", settings.PresetDB, "err", err)
		return preset.NewRegistry(preset.NewMemoryStore(), slog.Default())
	}
	return preset.NewRegistry(store, slog.Default())
}

// newSession builds an engine for the configured viewport, loads the saved
// config and applies any preset, template and flag overrides on top.
func newSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	v, err := render.ParseVariant(settings.Variant)
	if err != nil {
		return nil, err
	}
	e, err := engine.New(engine.Options{
		Width:   float64(settings.Viewport.Width),
		Height:  float64(settings.Viewport.Height),
		Config:  config.DefaultConfig(),
		Variant: v,
		Workers: settings.Workers,
		Logger:  slog.Default(),
	})
	if err != nil {
		return nil, err
	}

	s := &session{engine: e, presets: openPresets(), bus: bus.New(slog.Default())}
	s.panel = panel.New(panel.Options{
		Engine:   e,
		Source:   remote.FromSettings(settings.Source),
		Presets:  s.presets,
		Exports:  storage.New(settings.ExportDir),
		Bus:      s.bus,
		Branding: settings.Branding,
		Logger:   slog.Default(),
	})
	s.panel.Load(ctx)

	if err := s.applyOverrides(ctx, cmd); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) applyOverrides(ctx context.Context, cmd *cobra.Command) error {
	if presetNm != "" {
		if err := s.panel.ApplyPreset(ctx, presetNm); err != nil {
			return err
		}
	}
	if template != "" {
		if err := s.panel.ApplyTemplate(template); err != nil {
			return err
		}
	}
	p, err := configPatch(cmd)
	if err != nil {
		return err
	}
	if _, err := s.panel.Update(p); err != nil {
		return fmt.Errorf("invalid override: %w", err)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	m := viz.NewModel(viz.Options{
		Engine:         s.engine,
		Panel:          s.panel,
		FPS:            settings.FPS,
		Background:     settings.Background,
		ExportDir:      settings.ExportDir,
		ResizeDebounce: settings.ResizeDebounce,
		Context:        ctx,
	})
	return viz.Run(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	return gui.Run(gui.Options{
		Engine:         s.engine,
		Panel:          s.panel,
		FPS:            settings.FPS,
		Background:     settings.Background,
		ResizeDebounce: settings.ResizeDebounce,
		Context:        ctx,
	})
}
