package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/mesh"
)

var (
	settingsFile string
	logLevel     string
	settings     *config.Settings

	// viewport and source overrides shared by live, gui and render
	width      int
	height     int
	fps        int
	variant    string
	workers    int
	sourceURL  string
	sourceFile string

	// config overrides
	density  float64
	radius   float64
	mode     string
	line     string
	glow     string
	template string
	presetNm string
)

// main registers the netmesh commands; with no subcommand it opens the live
// terminal preview.
func main() {
	rootCmd := &cobra.Command{
		Use:           "netmesh",
		Short:         "interactive node-mesh animation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		RunE: runLive,
	}
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "netmesh.yaml", "settings file (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	addViewFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the mesh in the terminal",
		RunE:  runLive,
	}
	addViewFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "animate the mesh in a desktop window",
		RunE:  runGUI,
	}
	addViewFlags(guiCmd)

	rootCmd.AddCommand(liveCmd, guiCmd,
		newRenderCmd(), newServeCmd(), newBenchCmd(),
		newPresetsCmd(), newTemplatesCmd(), newExportCmd(), newImportCmd(), newSettingsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "netmesh:", err)
		stop()
		os.Exit(1)
	}
}

func addViewFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&width, "width", config.DefaultWidth, "viewport width in pixels")
	f.IntVar(&height, "height", config.DefaultHeight, "viewport height in pixels")
	f.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	f.StringVar(&variant, "variant", config.DefaultVariant, "renderer variant: full, simple")
	f.IntVar(&workers, "workers", 1, "goroutines used to advance nodes")
	f.StringVar(&sourceURL, "url", "", "load and save the config through this server")
	f.StringVar(&sourceFile, "file", config.DefaultConfigFile, "load and save the config from this file")
	addConfigFlags(cmd)
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&density, "density", 0, "grid spacing in pixels")
	f.Float64Var(&radius, "radius", 0, "interaction radius in pixels")
	f.StringVar(&mode, "mode", "", "interaction type: repel, attract, wave, glow")
	f.StringVar(&line, "line-color", "", "line colour (#RRGGBB)")
	f.StringVar(&glow, "glow-color", "", "glow colour (#RRGGBB)")
	f.StringVar(&template, "template", "", "apply a template's network settings")
	f.StringVar(&presetNm, "preset", "", "apply a preset")
}

// setup loads the settings file, applies flag overrides and installs the
// default logger.
func setup(cmd *cobra.Command) error {
	s, err := config.LoadSettings(settingsFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if cmd.Flags().Changed("settings") {
			return err
		}
		s = config.DefaultSettings()
	case err != nil:
		return fmt.Errorf("failed to load settings: %w", err)
	}
	overrideSettings(cmd, s)
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	settings = s

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(strings.ToLower(s.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// overrideSettings copies explicitly set flags over the file values.
func overrideSettings(cmd *cobra.Command, s *config.Settings) {
	f := cmd.Flags()
	if f.Changed("log-level") {
		s.LogLevel = logLevel
	}
	if f.Lookup("width") == nil {
		return
	}
	if f.Changed("width") {
		s.Viewport.Width = width
	}
	if f.Changed("height") {
		s.Viewport.Height = height
	}
	if f.Changed("fps") {
		s.FPS = fps
	}
	if f.Changed("variant") {
		s.Variant = variant
	}
	if f.Changed("workers") {
		s.Workers = workers
	}
	if f.Changed("url") {
		s.Source.URL = sourceURL
	}
	if f.Changed("file") {
		s.Source.File = sourceFile
	}
}

// configPatch collects the config override flags into a patch.
func configPatch(cmd *cobra.Command) (config.Patch, error) {
	var p config.Patch
	f := cmd.Flags()
	if f.Lookup("density") == nil {
		return p, nil
	}
	if f.Changed("density") {
		p.GridDensity = config.Float(density)
	}
	if f.Changed("radius") {
		p.InteractionRadius = config.Float(radius)
	}
	if f.Changed("mode") {
		m, err := mesh.ParseMode(mode)
		if err != nil {
			return p, err
		}
		p.InteractionType = config.ModePtr(m)
	}
	if f.Changed("line-color") {
		p.LineColor = config.String(line)
	}
	if f.Changed("glow-color") {
		p.GlowColor = config.String(glow)
	}
	return p, nil
}
