package config

import (
	"encoding/json"
	"math"

	"github.com/san-kum/netmesh/internal/mesh"
)

const (
	DefaultGridDensity       = 40.0
	DefaultInteractionRadius = 150.0
	DefaultLineColor         = "#f59e0b"
	DefaultGlowColor         = "#fbbf24"
	DefaultInteractionType   = mesh.ModeRepel
)

// Config holds the tunable mesh parameters. JSON field names are the wire
// format shared with the persistence endpoint and exported files.
type Config struct {
	GridDensity       float64   `json:"gridDensity" yaml:"gridDensity"`
	InteractionRadius float64   `json:"interactionRadius" yaml:"interactionRadius"`
	LineColor         string    `json:"lineColor" yaml:"lineColor"`
	GlowColor         string    `json:"glowColor" yaml:"glowColor"`
	InteractionType   mesh.Mode `json:"interactionType" yaml:"interactionType"`
}

func DefaultConfig() Config {
	return Config{
		GridDensity:       DefaultGridDensity,
		InteractionRadius: DefaultInteractionRadius,
		LineColor:         DefaultLineColor,
		GlowColor:         DefaultGlowColor,
		InteractionType:   DefaultInteractionType,
	}
}

func (c Config) Validate() error {
	if !(c.GridDensity > 0) || math.IsInf(c.GridDensity, 0) {
		return &FieldError{Field: "gridDensity", Value: c.GridDensity, Err: ErrInvalidDensity}
	}
	if !(c.InteractionRadius > 0) || math.IsInf(c.InteractionRadius, 0) {
		return &FieldError{Field: "interactionRadius", Value: c.InteractionRadius, Err: ErrInvalidRadius}
	}
	if err := ValidateHex(c.LineColor); err != nil {
		return &FieldError{Field: "lineColor", Value: c.LineColor, Err: err}
	}
	if err := ValidateHex(c.GlowColor); err != nil {
		return &FieldError{Field: "glowColor", Value: c.GlowColor, Err: err}
	}
	if !c.InteractionType.Valid() {
		return &FieldError{Field: "interactionType", Value: c.InteractionType, Err: ErrInvalidMode}
	}
	return nil
}

// Merge returns c with every field present in p overriding c's value.
func (c Config) Merge(p Patch) Config {
	if p.GridDensity != nil {
		c.GridDensity = *p.GridDensity
	}
	if p.InteractionRadius != nil {
		c.InteractionRadius = *p.InteractionRadius
	}
	if p.LineColor != nil {
		c.LineColor = *p.LineColor
	}
	if p.GlowColor != nil {
		c.GlowColor = *p.GlowColor
	}
	if p.InteractionType != nil {
		c.InteractionType = *p.InteractionType
	}
	return c
}

// NeedsRebuild reports whether moving from old to c invalidates the grid.
func (c Config) NeedsRebuild(old Config) bool {
	return c.GridDensity != old.GridDensity
}

// Patch returns a patch carrying every field of c.
func (c Config) Patch() Patch {
	return Patch{
		GridDensity:       &c.GridDensity,
		InteractionRadius: &c.InteractionRadius,
		LineColor:         &c.LineColor,
		GlowColor:         &c.GlowColor,
		InteractionType:   &c.InteractionType,
	}
}

// MarshalIndent encodes c the way exported and saved files are written.
func (c Config) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(c, "", "    ")
}

// Patch is a partial Config. Nil fields are left untouched by Merge.
type Patch struct {
	GridDensity       *float64   `json:"gridDensity,omitempty" yaml:"gridDensity,omitempty"`
	InteractionRadius *float64   `json:"interactionRadius,omitempty" yaml:"interactionRadius,omitempty"`
	LineColor         *string    `json:"lineColor,omitempty" yaml:"lineColor,omitempty"`
	GlowColor         *string    `json:"glowColor,omitempty" yaml:"glowColor,omitempty"`
	InteractionType   *mesh.Mode `json:"interactionType,omitempty" yaml:"interactionType,omitempty"`
}

func (p Patch) Empty() bool {
	return p.GridDensity == nil && p.InteractionRadius == nil && p.LineColor == nil &&
		p.GlowColor == nil && p.InteractionType == nil
}

// ParsePatch decodes a JSON document into a Patch. Unknown fields are ignored.
func ParsePatch(data []byte) (Patch, error) {
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return Patch{}, err
	}
	return p, nil
}

func Float(v float64) *float64       { return &v }
func String(v string) *string        { return &v }
func ModePtr(v mesh.Mode) *mesh.Mode { return &v }
