package config

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/san-kum/netmesh/internal/mesh"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GridDensity != 40 {
		t.Errorf("expected density 40, got %v", cfg.GridDensity)
	}
	if cfg.InteractionRadius != 150 {
		t.Errorf("expected radius 150, got %v", cfg.InteractionRadius)
	}
	if cfg.LineColor != "#f59e0b" || cfg.GlowColor != "#fbbf24" {
		t.Errorf("unexpected colors %s/%s", cfg.LineColor, cfg.GlowColor)
	}
	if cfg.InteractionType != mesh.ModeRepel {
		t.Errorf("expected repel, got %s", cfg.InteractionType)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
		field string
		want  error
	}{
		{"zero density", Patch{GridDensity: Float(0)}, "gridDensity", ErrInvalidDensity},
		{"negative radius", Patch{InteractionRadius: Float(-1)}, "interactionRadius", ErrInvalidRadius},
		{"short hex", Patch{LineColor: String("#fff")}, "lineColor", ErrInvalidColor},
		{"not hex", Patch{GlowColor: String("#gggggg")}, "glowColor", ErrInvalidColor},
		{"named color", Patch{LineColor: String("orange")}, "lineColor", ErrInvalidColor},
		{"bad mode", Patch{InteractionType: ModePtr("spin")}, "interactionType", ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DefaultConfig().Merge(tt.patch).Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Errorf("expected field error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestMergeKeepsAbsentFields(t *testing.T) {
	p, err := ParsePatch([]byte(`{"lineColor":"#ABCDEF"}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	cfg := DefaultConfig().Merge(p)
	if cfg.LineColor != "#ABCDEF" {
		t.Errorf("expected lineColor #ABCDEF, got %s", cfg.LineColor)
	}
	if cfg.InteractionRadius != 150 {
		t.Errorf("radius should survive merge, got %v", cfg.InteractionRadius)
	}
	if cfg.GlowColor != DefaultGlowColor || cfg.GridDensity != DefaultGridDensity {
		t.Error("untouched fields changed")
	}
}

func TestParsePatchIgnoresUnknown(t *testing.T) {
	p, err := ParsePatch([]byte(`{"foo":1,"gridDensity":25}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.GridDensity == nil || *p.GridDensity != 25 {
		t.Error("gridDensity not parsed")
	}
	if p.LineColor != nil {
		t.Error("lineColor should be absent")
	}

	if _, err := ParsePatch([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed json")
	}
}

func TestNeedsRebuild(t *testing.T) {
	old := DefaultConfig()
	if old.Merge(Patch{LineColor: String("#000000")}).NeedsRebuild(old) {
		t.Error("color change should not rebuild")
	}
	if !old.Merge(Patch{GridDensity: Float(30)}).NeedsRebuild(old) {
		t.Error("density change should rebuild")
	}
}

func TestMarshalIndentFieldNames(t *testing.T) {
	data, err := DefaultConfig().MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"gridDensity", "interactionRadius", "lineColor", "glowColor", "interactionType"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %s", key)
		}
	}
	if raw["interactionType"] != "repel" {
		t.Errorf("expected repel, got %v", raw["interactionType"])
	}
}

func TestRGBA(t *testing.T) {
	c := RGBA("#fbbf24", 0.6)
	if c.R != 0xfb || c.G != 0xbf || c.B != 0x24 {
		t.Errorf("unexpected rgb %v", c)
	}
	if c.A != 153 {
		t.Errorf("expected alpha 153, got %d", c.A)
	}
	if RGBA("#ffffff", 1.7).A != 255 {
		t.Error("alpha should clamp to 1")
	}
}

func TestBlend(t *testing.T) {
	if got := Blend("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("t=0 should return first color, got %s", got)
	}
	if got := Blend("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("t=1 should return second color, got %s", got)
	}
}

func TestBuiltinPresets(t *testing.T) {
	names := ListBuiltinPresets()
	want := []string{"Calm Blue", "Neon Cyber", "Minimal"}
	if len(names) != len(want) {
		t.Fatalf("expected %d presets, got %d", len(want), len(names))
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("preset %d: expected %s, got %s", i, n, names[i])
		}
	}

	p, ok := GetBuiltinPreset("Neon Cyber")
	if !ok {
		t.Fatal("Neon Cyber missing")
	}
	cfg := DefaultConfig().Merge(p)
	if cfg.GridDensity != 30 || cfg.InteractionRadius != 200 || cfg.InteractionType != mesh.ModeGlow {
		t.Errorf("unexpected Neon Cyber config %+v", cfg)
	}
	if IsBuiltinPreset("neon cyber") {
		t.Error("preset names are case sensitive")
	}
	for _, bp := range BuiltinPresets {
		if err := DefaultConfig().Merge(bp.Patch).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", bp.Name, err)
		}
	}
}

func TestTemplates(t *testing.T) {
	tpl, err := GetTemplate("ocean")
	if err != nil {
		t.Fatal(err)
	}
	if tpl.Network.GridDensity != 25 || tpl.Network.InteractionType != mesh.ModeWave {
		t.Errorf("unexpected ocean network %+v", tpl.Network)
	}

	cfg := DefaultConfig().Merge(tpl.Patch(Branding{NetworkLineColor: "#123456"}))
	if cfg.LineColor != "#123456" {
		t.Errorf("branding should override line color, got %s", cfg.LineColor)
	}
	if cfg.GlowColor != "#7dd3fc" {
		t.Errorf("template glow color expected, got %s", cfg.GlowColor)
	}

	if _, err := GetTemplate("nope"); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got %v", err)
	}
	for _, tp := range Templates {
		if err := tp.Network.Validate(); err != nil {
			t.Errorf("template %s invalid: %v", tp.Key, err)
		}
	}
	if len(TemplateKeys()) != 6 {
		t.Errorf("expected 6 templates, got %d", len(TemplateKeys()))
	}
}
