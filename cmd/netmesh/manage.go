package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/engine"
	"github.com/san-kum/netmesh/internal/panel"
	"github.com/san-kum/netmesh/internal/preset"
	"github.com/san-kum/netmesh/internal/remote"
	"github.com/san-kum/netmesh/internal/storage"
)

var (
	confirm string
	latest  bool
)

// headless opens a panel over a small engine for commands that only edit
// and persist the config.
func headless(ctx context.Context) (*panel.Panel, *preset.Registry, error) {
	e, err := engine.New(engine.Options{
		Width:  float64(settings.Viewport.Width),
		Height: float64(settings.Viewport.Height),
		Config: config.DefaultConfig(),
		Logger: slog.Default(),
	})
	if err != nil {
		return nil, nil, err
	}
	presets := openPresets()
	p := panel.New(panel.Options{
		Engine:   e,
		Source:   remote.FromSettings(settings.Source),
		Presets:  presets,
		Exports:  storage.New(settings.ExportDir),
		Branding: settings.Branding,
		Logger:   slog.Default(),
	})
	p.Load(ctx)
	return p, presets, nil
}

func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&sourceURL, "url", "", "load and save the config through this server")
	f.StringVar(&sourceFile, "file", config.DefaultConfigFile, "load and save the config from this file")
}

func applySourceFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("url") {
		settings.Source.URL = sourceURL
	}
	if cmd.Flags().Changed("file") {
		settings.Source.File = sourceFile
	}
}

func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "list, save, apply and delete presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := openPresets()
			defer reg.Close()
			list, err := reg.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tSETTINGS")
			for _, p := range list {
				kind := "user"
				if p.Builtin {
					kind = "built-in"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, kind, describePatch(p.Patch))
			}
			return w.Flush()
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save [name]",
		Short: "save the current config as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applySourceFlags(cmd)
			p, reg, err := headless(cmd.Context())
			if err != nil {
				return err
			}
			defer reg.Close()
			if err := p.SavePreset(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("saved preset %q\n", args[0])
			return nil
		},
	}
	addSourceFlags(saveCmd)

	applyCmd := &cobra.Command{
		Use:   "apply [name]",
		Short: "apply a preset and save the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applySourceFlags(cmd)
			p, reg, err := headless(cmd.Context())
			if err != nil {
				return err
			}
			defer reg.Close()
			if err := p.ApplyPreset(cmd.Context(), args[0]); err != nil {
				return err
			}
			return saveAndReport(cmd.Context(), p)
		},
	}
	addSourceFlags(applyCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "delete a user preset (requires --confirm with the same name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := openPresets()
			defer reg.Close()
			err := reg.Delete(cmd.Context(), args[0], confirm)
			if errors.Is(err, preset.ErrNotConfirmed) {
				fmt.Println("deletion cancelled: pass --confirm", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("deleted preset %q\n", args[0])
			return nil
		},
	}
	deleteCmd.Flags().StringVar(&confirm, "confirm", "", "repeat the preset name to confirm")

	cmd.AddCommand(saveCmd, applyCmd, deleteCmd)
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "list templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tDESCRIPTION\tNETWORK")
			for _, key := range config.TemplateKeys() {
				t, _ := config.GetTemplate(key)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Key, t.Name, t.Description, describePatch(t.Patch(settings.Branding)))
			}
			return w.Flush()
		},
	}

	applyCmd := &cobra.Command{
		Use:   "apply [key]",
		Short: "apply a template's network settings and save the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applySourceFlags(cmd)
			p, reg, err := headless(cmd.Context())
			if err != nil {
				return err
			}
			defer reg.Close()
			if err := p.ApplyTemplate(args[0]); err != nil {
				return err
			}
			return saveAndReport(cmd.Context(), p)
		},
	}
	addSourceFlags(applyCmd)
	cmd.AddCommand(applyCmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "export the current config to a timestamped json file",
		RunE: func(cmd *cobra.Command, args []string) error {
			applySourceFlags(cmd)
			p, reg, err := headless(cmd.Context())
			if err != nil {
				return err
			}
			defer reg.Close()
			path, err := p.Export()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "import a config file over the current config and save it",
		Long:  "import merges a config file over the current config. With --latest it restores the newest export instead.",
		Args: func(cmd *cobra.Command, args []string) error {
			if latest {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			applySourceFlags(cmd)
			p, reg, err := headless(cmd.Context())
			if err != nil {
				return err
			}
			defer reg.Close()
			if latest {
				path, err := p.ImportLatest()
				if err != nil {
					return err
				}
				fmt.Println("restored", path)
				return saveAndReport(cmd.Context(), p)
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			if err := p.Import(f); err != nil {
				return err
			}
			return saveAndReport(cmd.Context(), p)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().BoolVar(&latest, "latest", false, "restore the newest export from the export directory")
	return cmd
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(settings)
		},
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "write the default settings file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(settingsFile); err == nil {
				return fmt.Errorf("%s already exists", settingsFile)
			}
			if err := config.SaveSettings(settingsFile, config.DefaultSettings()); err != nil {
				return err
			}
			fmt.Println("wrote", settingsFile)
			return nil
		},
	}
	cmd.AddCommand(initCmd)
	return cmd
}

func saveAndReport(ctx context.Context, p *panel.Panel) error {
	if err := p.Save(ctx); err != nil {
		return err
	}
	cfg := p.Config()
	fmt.Printf("saved: %s\n", describePatch(cfg.Patch()))
	return nil
}

// describePatch renders the set fields of p on one line.
func describePatch(p config.Patch) string {
	var parts []string
	add := func(k, v string) { parts = append(parts, k+"="+v) }
	if p.GridDensity != nil {
		add("density", fmt.Sprintf("%g", *p.GridDensity))
	}
	if p.InteractionRadius != nil {
		add("radius", fmt.Sprintf("%g", *p.InteractionRadius))
	}
	if p.InteractionType != nil {
		add("mode", p.InteractionType.String())
	}
	if p.LineColor != nil {
		add("line", *p.LineColor)
	}
	if p.GlowColor != nil {
		add("glow", *p.GlowColor)
	}
	return strings.Join(parts, " ")
}
