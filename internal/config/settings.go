package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth          = 1280
	DefaultHeight         = 720
	DefaultFPS            = 60
	DefaultVariant        = "full"
	DefaultBackground     = "#0a0a0a"
	DefaultAddr           = ":5500"
	DefaultConfigFile     = "config.json"
	DefaultPresetDB       = ".netmesh/presets.db"
	DefaultExportDir      = "."
	DefaultResizeDebounce = 150 * time.Millisecond
	DefaultClientTimeout  = 5 * time.Second
)

// Settings are the application-level options of the netmesh binary, loaded
// from YAML. The mesh Config itself lives in JSON.
type Settings struct {
	Viewport       ViewportSettings `yaml:"viewport"`
	FPS            int              `yaml:"fps"`
	Variant        string           `yaml:"variant"`
	Background     string           `yaml:"background"`
	Workers        int              `yaml:"workers"`
	ResizeDebounce time.Duration    `yaml:"resize_debounce"`
	LogLevel       string           `yaml:"log_level"`
	Source         SourceSettings   `yaml:"source"`
	Server         ServerSettings   `yaml:"server"`
	PresetDB       string           `yaml:"preset_db"`
	ExportDir      string           `yaml:"export_dir"`
	Branding       Branding         `yaml:"branding"`
}

type ViewportSettings struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SourceSettings selects where the mesh config is loaded from and saved to:
// an HTTP endpoint when URL is set, otherwise a local JSON file.
type SourceSettings struct {
	URL     string        `yaml:"url"`
	File    string        `yaml:"file"`
	Timeout time.Duration `yaml:"timeout"`
}

type ServerSettings struct {
	Addr       string `yaml:"addr"`
	ConfigFile string `yaml:"config_file"`
	Watch      bool   `yaml:"watch"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Viewport:       ViewportSettings{Width: DefaultWidth, Height: DefaultHeight},
		FPS:            DefaultFPS,
		Variant:        DefaultVariant,
		Background:     DefaultBackground,
		Workers:        1,
		ResizeDebounce: DefaultResizeDebounce,
		LogLevel:       "info",
		Source: SourceSettings{
			File:    DefaultConfigFile,
			Timeout: DefaultClientTimeout,
		},
		Server: ServerSettings{
			Addr:       DefaultAddr,
			ConfigFile: DefaultConfigFile,
			Watch:      true,
		},
		PresetDB:  DefaultPresetDB,
		ExportDir: DefaultExportDir,
	}
}

// Validate rejects settings the animation cannot run with.
func (s *Settings) Validate() error {
	if s.FPS <= 0 {
		return &FieldError{Field: "fps", Value: s.FPS, Err: ErrInvalidFPS}
	}
	if s.Viewport.Width <= 0 {
		return &FieldError{Field: "viewport.width", Value: s.Viewport.Width, Err: ErrInvalidViewport}
	}
	if s.Viewport.Height <= 0 {
		return &FieldError{Field: "viewport.height", Value: s.Viewport.Height, Err: ErrInvalidViewport}
	}
	return nil
}

func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func SaveSettings(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
