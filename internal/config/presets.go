package config

import "github.com/san-kum/netmesh/internal/mesh"

// BuiltinPreset is a named, read-only mesh configuration.
type BuiltinPreset struct {
	Name  string
	Patch Patch
}

// BuiltinPresets ship with the binary and can be neither overwritten nor deleted.
var BuiltinPresets = []BuiltinPreset{
	{Name: "Calm Blue", Patch: Config{
		GridDensity: 40, InteractionRadius: 150,
		LineColor: "#3b82f6", GlowColor: "#60a5fa", InteractionType: mesh.ModeWave,
	}.Patch()},
	{Name: "Neon Cyber", Patch: Config{
		GridDensity: 30, InteractionRadius: 200,
		LineColor: "#ec4899", GlowColor: "#a855f7", InteractionType: mesh.ModeGlow,
	}.Patch()},
	{Name: "Minimal", Patch: Config{
		GridDensity: 60, InteractionRadius: 100,
		LineColor: "#94a3b8", GlowColor: "#cbd5e1", InteractionType: mesh.ModeRepel,
	}.Patch()},
}

// GetBuiltinPreset returns the patch for a built-in preset name.
func GetBuiltinPreset(name string) (Patch, bool) {
	for _, p := range BuiltinPresets {
		if p.Name == name {
			return p.Patch, true
		}
	}
	return Patch{}, false
}

func IsBuiltinPreset(name string) bool {
	_, ok := GetBuiltinPreset(name)
	return ok
}

func ListBuiltinPresets() []string {
	names := make([]string, len(BuiltinPresets))
	for i, p := range BuiltinPresets {
		names[i] = p.Name
	}
	return names
}
