package config

import (
	"fmt"

	"github.com/san-kum/netmesh/internal/mesh"
)

// Template is the network block of a page template: the mesh settings a
// template switch applies, plus the page-level mesh opacity.
type Template struct {
	Key            string
	Name           string
	Description    string
	Network        Config
	NetworkOpacity float64
}

// Branding carries per-site colour overrides that win over template colours.
type Branding struct {
	NetworkLineColor string `json:"networkLineColor,omitempty" yaml:"networkLineColor,omitempty"`
	NetworkGlowColor string `json:"networkGlowColor,omitempty" yaml:"networkGlowColor,omitempty"`
}

var Templates = []Template{
	{
		Key: "solar", Name: "Solar", Description: "Energetic and radiant",
		Network:        Config{GridDensity: 40, InteractionRadius: 150, LineColor: "#f59e0b", GlowColor: "#fbbf24", InteractionType: mesh.ModeRepel},
		NetworkOpacity: 0.5,
	},
	{
		Key: "ocean", Name: "Ocean", Description: "Spacious and fluid",
		Network:        Config{GridDensity: 25, InteractionRadius: 220, LineColor: "#0ea5e9", GlowColor: "#7dd3fc", InteractionType: mesh.ModeWave},
		NetworkOpacity: 0.7,
	},
	{
		Key: "forest", Name: "Forest", Description: "Calm and organic",
		Network:        Config{GridDensity: 55, InteractionRadius: 100, LineColor: "#10b981", GlowColor: "#6ee7b7", InteractionType: mesh.ModeGlow},
		NetworkOpacity: 0.35,
	},
	{
		Key: "sunset", Name: "Sunset", Description: "Warm and dramatic",
		Network:        Config{GridDensity: 30, InteractionRadius: 250, LineColor: "#f43f5e", GlowColor: "#fda4af", InteractionType: mesh.ModeAttract},
		NetworkOpacity: 0.65,
	},
	{
		Key: "purple", Name: "Violet", Description: "Elegant and creative",
		Network:        Config{GridDensity: 45, InteractionRadius: 180, LineColor: "#8b5cf6", GlowColor: "#ddd6fe", InteractionType: mesh.ModeRepel},
		NetworkOpacity: 0.55,
	},
	{
		Key: "minimal", Name: "Minimal", Description: "Quiet and understated",
		Network:        Config{GridDensity: 80, InteractionRadius: 80, LineColor: "#525252", GlowColor: "#a3a3a3", InteractionType: mesh.ModeGlow},
		NetworkOpacity: 0.2,
	},
}

// GetTemplate looks a template up by key.
func GetTemplate(key string) (Template, error) {
	for _, t := range Templates {
		if t.Key == key {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
}

func TemplateKeys() []string {
	keys := make([]string, len(Templates))
	for i, t := range Templates {
		keys[i] = t.Key
	}
	return keys
}

// Patch returns the template's network settings with branding colours laid
// over the template colours.
func (t Template) Patch(b Branding) Patch {
	p := t.Network.Patch()
	if b.NetworkLineColor != "" {
		p.LineColor = String(b.NetworkLineColor)
	}
	if b.NetworkGlowColor != "" {
		p.GlowColor = String(b.NetworkGlowColor)
	}
	return p
}
