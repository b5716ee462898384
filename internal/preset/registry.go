package preset

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/san-kum/netmesh/internal/config"
)

// Preset is a named configuration visible to the user. Built-ins carry only
// the fields they define; user presets are full snapshots.
type Preset struct {
	Name    string       `json:"name"`
	Builtin bool         `json:"builtin"`
	Patch   config.Patch `json:"config"`
}

// Registry combines the read-only built-ins with a Store of user presets.
// A built-in always shadows a stored preset of the same name.
type Registry struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewRegistry(store Store, logger *slog.Logger) *Registry {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: store, logger: logger, now: time.Now}
}

// List returns built-ins first, then user presets ordered by name.
func (r *Registry) List(ctx context.Context) ([]Preset, error) {
	out := make([]Preset, 0, len(config.BuiltinPresets))
	for _, bp := range config.BuiltinPresets {
		out = append(out, Preset{Name: bp.Name, Builtin: true, Patch: bp.Patch})
	}

	recs, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if config.IsBuiltinPreset(rec.Name) {
			continue
		}
		out = append(out, Preset{Name: rec.Name, Patch: rec.Config.Patch()})
	}
	return out, nil
}

func (r *Registry) Get(ctx context.Context, name string) (Preset, error) {
	if p, ok := config.GetBuiltinPreset(name); ok {
		return Preset{Name: name, Builtin: true, Patch: p}, nil
	}
	rec, err := r.store.Get(ctx, name)
	if err != nil {
		return Preset{}, err
	}
	return Preset{Name: rec.Name, Patch: rec.Config.Patch()}, nil
}

// Save stores a snapshot of cfg under name, replacing any user preset with
// that name.
func (r *Registry) Save(ctx context.Context, name string, cfg config.Config) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if config.IsBuiltinPreset(name) {
		return ErrBuiltin
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := r.store.Put(ctx, Record{Name: name, Config: cfg, UpdatedAt: r.now()}); err != nil {
		return err
	}
	r.logger.Info("preset saved", "name", name)
	return nil
}

// Delete removes a user preset. confirm must repeat the name exactly.
func (r *Registry) Delete(ctx context.Context, name, confirm string) error {
	if config.IsBuiltinPreset(name) {
		return ErrBuiltin
	}
	if confirm != name {
		return ErrNotConfirmed
	}
	if err := r.store.Delete(ctx, name); err != nil {
		return err
	}
	r.logger.Info("preset deleted", "name", name)
	return nil
}

// Apply merges the named preset into cfg.
func (r *Registry) Apply(ctx context.Context, name string, cfg config.Config) (config.Config, error) {
	p, err := r.Get(ctx, name)
	if err != nil {
		return cfg, err
	}
	return cfg.Merge(p.Patch), nil
}

func (r *Registry) Close() error {
	return r.store.Close()
}
