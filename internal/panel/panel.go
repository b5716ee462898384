// Package panel is the control surface of one mesh: it loads, saves,
// imports and exports the config, manages presets, templates and edit
// history, and reports outcomes as notices.
package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/netmesh/internal/bus"
	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/engine"
	"github.com/san-kum/netmesh/internal/preset"
	"github.com/san-kum/netmesh/internal/remote"
	"github.com/san-kum/netmesh/internal/storage"
)

type Options struct {
	Engine       *engine.Engine
	Source       remote.Source
	Presets      *preset.Registry
	Exports      *storage.Store
	Bus          *bus.Bus
	Branding     config.Branding
	HistoryLimit int
	Logger       *slog.Logger
}

type Panel struct {
	engine   *engine.Engine
	source   remote.Source
	presets  *preset.Registry
	exports  *storage.Store
	bus      *bus.Bus
	branding config.Branding
	logger   *slog.Logger

	// edit serializes config changes so history order matches the engine
	edit sync.Mutex

	mu       sync.Mutex
	baseline config.Config
	history  *config.History
	template string
	open     bool
	notices  []Notice
	unsub    []func()
}

func New(opts Options) *Panel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Presets == nil {
		opts.Presets = preset.NewRegistry(nil, logger)
	}
	if opts.Exports == nil {
		opts.Exports = storage.New(config.DefaultExportDir)
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = config.DefaultHistoryLimit
	}

	current := opts.Engine.Config()
	p := &Panel{
		engine:   opts.Engine,
		source:   opts.Source,
		presets:  opts.Presets,
		exports:  opts.Exports,
		bus:      opts.Bus,
		branding: opts.Branding,
		logger:   logger,
		baseline: current,
		history:  config.NewHistory(opts.HistoryLimit, current),
	}
	if p.bus != nil {
		p.unsub = append(p.unsub, p.bus.Subscribe("", p.HandleMessage))
	}
	return p
}

// Detach unsubscribes the panel from the bus.
func (p *Panel) Detach() {
	p.mu.Lock()
	unsub := p.unsub
	p.unsub = nil
	p.mu.Unlock()
	for _, fn := range unsub {
		fn()
	}
}

func (p *Panel) Config() config.Config {
	return p.engine.Config()
}

// Baseline is the config Reset returns to.
func (p *Panel) Baseline() config.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.baseline
}

// Load fetches the persisted config and makes it current and the reset
// baseline. Any failure falls back to defaults; Load never fails.
func (p *Panel) Load(ctx context.Context) config.Config {
	cfg := config.DefaultConfig()
	if p.source != nil {
		patch, err := p.source.Load(ctx)
		switch {
		case errors.Is(err, remote.ErrNotFound):
			p.logger.Info("no saved config, using defaults", "source", p.source.String())
		case err != nil:
			p.logger.Warn("config load failed, using defaults", "source", p.source.String(), "err", err)
		default:
			if merged := cfg.Merge(patch); merged.Validate() != nil {
				p.logger.Warn("saved config invalid, using defaults", "source", p.source.String(), "err", merged.Validate())
			} else {
				cfg = merged
			}
		}
	}

	p.edit.Lock()
	defer p.edit.Unlock()
	if err := p.engine.Apply(cfg); err != nil {
		p.logger.Error("apply loaded config", "err", err)
		cfg = p.engine.Config()
	}

	p.mu.Lock()
	p.baseline = cfg
	p.history.Reset(cfg)
	p.mu.Unlock()
	return cfg
}

// Save persists the current config. On failure the config is unchanged and
// an error notice is recorded.
func (p *Panel) Save(ctx context.Context) error {
	if p.source == nil {
		err := fmt.Errorf("%w: no config source", remote.ErrSaveFailed)
		p.Notify(Error, "Save failed: no config source configured")
		return err
	}
	if err := p.source.Save(ctx, p.engine.Config()); err != nil {
		p.logger.Warn("save failed", "source", p.source.String(), "err", err)
		p.Notify(Error, "Save failed: "+err.Error())
		return err
	}
	p.Notify(Success, "Configuration saved")
	return nil
}

// Export writes the current config to a timestamped file.
func (p *Panel) Export() (string, error) {
	path, err := p.exports.Export(p.engine.Config())
	if err != nil {
		p.Notify(Error, "Export failed: "+err.Error())
		return "", err
	}
	p.Notify(Success, "Exported to "+path)
	return path, nil
}

// Import merges a config document over the current config. On failure the
// current config is left untouched.
func (p *Panel) Import(r io.Reader) error {
	patch, err := storage.Decode(r)
	if err != nil {
		p.Notify(Error, "Import failed: "+importReason(err))
		return err
	}
	if _, err := p.commit(mergeWith(patch), true); err != nil {
		p.Notify(Error, "Import failed: "+err.Error())
		return err
	}
	p.Notify(Success, "Configuration imported")
	return nil
}

// ImportLatest restores the newest export in the export directory as a
// complete config and returns its path.
func (p *Panel) ImportLatest() (string, error) {
	path, err := p.exports.Latest()
	if err != nil {
		p.Notify(Error, "Import failed: "+err.Error())
		return "", err
	}
	cfg, err := p.exports.Load(path)
	if err != nil {
		p.Notify(Error, "Import failed: "+importReason(err))
		return "", err
	}
	if _, err := p.commit(func(config.Config) config.Config { return cfg }, true); err != nil {
		p.Notify(Error, "Import failed: "+err.Error())
		return "", err
	}
	p.Notify(Success, "Restored "+path)
	return path, nil
}

func importReason(err error) string {
	if errors.Is(err, storage.ErrMalformed) {
		return "file is not valid JSON"
	}
	return err.Error()
}

// Reset restores the baseline captured by Load and rebuilds the grid.
func (p *Panel) Reset() error {
	baseline := p.Baseline()
	if _, err := p.commit(func(config.Config) config.Config { return baseline }, true); err != nil {
		return err
	}
	p.Notify(Info, "Configuration reset")
	return nil
}

// Update is the single entry point for interactive edits.
func (p *Panel) Update(patch config.Patch) (config.Config, error) {
	if patch.Empty() {
		return p.engine.Config(), nil
	}
	return p.commit(mergeWith(patch), false)
}

func mergeWith(patch config.Patch) func(config.Config) config.Config {
	return func(c config.Config) config.Config { return c.Merge(patch) }
}

// commit applies fn to the live config and records the result. With
// rebuild set the grid is regenerated even when the spacing is unchanged.
func (p *Panel) commit(fn func(config.Config) config.Config, rebuild bool) (config.Config, error) {
	p.edit.Lock()
	defer p.edit.Unlock()

	old, next, err := p.engine.Modify(fn)
	if err != nil {
		return old, err
	}
	if rebuild && !next.NeedsRebuild(old) {
		if err := p.engine.Rebuild(); err != nil {
			return next, err
		}
	}
	p.mu.Lock()
	p.history.Push(next)
	p.mu.Unlock()
	return next, nil
}

func (p *Panel) Undo() bool {
	return p.step((*config.History).Undo, (*config.History).Redo)
}

func (p *Panel) Redo() bool {
	return p.step((*config.History).Redo, (*config.History).Undo)
}

// step moves the history cursor and applies the snapshot there, moving the
// cursor back when the engine rejects it.
func (p *Panel) step(move, back func(*config.History) (config.Config, bool)) bool {
	p.edit.Lock()
	defer p.edit.Unlock()

	p.mu.Lock()
	cfg, ok := move(p.history)
	p.mu.Unlock()
	if !ok {
		return false
	}
	if err := p.engine.Apply(cfg); err != nil {
		p.logger.Warn("history step rejected", "err", err)
		p.mu.Lock()
		back(p.history)
		p.mu.Unlock()
		return false
	}
	return true
}

func (p *Panel) CanUndo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.CanUndo()
}

func (p *Panel) CanRedo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.CanRedo()
}

func (p *Panel) Presets(ctx context.Context) ([]preset.Preset, error) {
	return p.presets.List(ctx)
}

func (p *Panel) ApplyPreset(ctx context.Context, name string) error {
	pr, err := p.presets.Get(ctx, name)
	if err != nil {
		p.Notify(Error, fmt.Sprintf("Preset %q: %v", name, err))
		return err
	}
	if _, err := p.commit(mergeWith(pr.Patch), false); err != nil {
		return err
	}
	p.Notify(Info, fmt.Sprintf("Preset %q applied", name))
	return nil
}

// SavePreset stores the current config under name.
func (p *Panel) SavePreset(ctx context.Context, name string) error {
	err := p.presets.Save(ctx, name, p.engine.Config())
	switch {
	case errors.Is(err, preset.ErrBuiltin):
		p.Notify(Warning, fmt.Sprintf("%q is a built-in preset and cannot be overwritten", name))
	case errors.Is(err, preset.ErrEmptyName):
		p.Notify(Warning, "Preset name is empty")
	case err != nil:
		p.Notify(Error, "Saving preset failed: "+err.Error())
	default:
		p.Notify(Success, fmt.Sprintf("Preset %q saved", name))
	}
	return err
}

// DeletePreset removes a user preset; confirm must repeat the name.
func (p *Panel) DeletePreset(ctx context.Context, name, confirm string) error {
	err := p.presets.Delete(ctx, name, confirm)
	switch {
	case errors.Is(err, preset.ErrBuiltin):
		p.Notify(Warning, fmt.Sprintf("%q is a built-in preset and cannot be deleted", name))
	case errors.Is(err, preset.ErrNotConfirmed):
		p.Notify(Info, "Deletion cancelled")
	case err != nil:
		p.Notify(Error, fmt.Sprintf("Deleting %q failed: %v", name, err))
	default:
		p.Notify(Success, fmt.Sprintf("Preset %q deleted", name))
	}
	return err
}

// ApplyTemplate re-derives the mesh settings from a template's network
// block, with branding colours taking precedence.
func (p *Panel) ApplyTemplate(key string) error {
	t, err := config.GetTemplate(key)
	if err != nil {
		p.Notify(Warning, err.Error())
		return err
	}
	if _, err := p.commit(mergeWith(t.Patch(p.branding)), false); err != nil {
		return err
	}
	p.mu.Lock()
	p.template = key
	p.mu.Unlock()
	p.logger.Info("template applied", "template", key)
	return nil
}

func (p *Panel) Template() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.template
}

// HandleMessage reacts to bus traffic.
func (p *Panel) HandleMessage(m bus.Message) {
	switch m.Type {
	case bus.CloseAll:
		p.mu.Lock()
		p.open = false
		p.mu.Unlock()
	case bus.ChangeTemplate:
		p.ApplyTemplate(m.Template)
	case bus.ConfigChanged:
		if m.Source == "file" {
			ctx, cancel := context.WithTimeout(context.Background(), config.DefaultClientTimeout)
			defer cancel()
			p.Load(ctx)
			p.Notify(Info, "Configuration reloaded")
		}
	case bus.Notice:
		p.Notify(Info, m.Text)
	}
}

// Open shows the panel, closing every other panel first.
func (p *Panel) Open() {
	if p.bus != nil {
		p.bus.Publish(bus.Message{Type: bus.CloseAll, Source: "panel"})
	}
	p.mu.Lock()
	p.open = true
	p.mu.Unlock()
}

func (p *Panel) Close() {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
}

func (p *Panel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *Panel) Notify(level Level, text string) {
	p.mu.Lock()
	p.notices = append(p.notices, Notice{Level: level, Text: text, Time: time.Now()})
	if len(p.notices) > maxNotices {
		p.notices = p.notices[len(p.notices)-maxNotices:]
	}
	p.mu.Unlock()

	switch level {
	case Error:
		p.logger.Error(text)
	case Warning:
		p.logger.Warn(text)
	default:
		p.logger.Info(text)
	}
}

// Notices returns recorded notices, oldest first.
func (p *Panel) Notices() []Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Notice, len(p.notices))
	copy(out, p.notices)
	return out
}

// LastNotice returns the newest notice, if any.
func (p *Panel) LastNotice() (Notice, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.notices) == 0 {
		return Notice{}, false
	}
	return p.notices[len(p.notices)-1], true
}
