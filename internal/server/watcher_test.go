package server

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/netmesh/internal/bus"
	"github.com/san-kum/netmesh/internal/preset"
)

func TestWatcherPublishesOnWrite(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	b := bus.New(logger)

	changed := make(chan bus.Message, 4)
	b.Subscribe(bus.ConfigChanged, func(m bus.Message) { changed <- m })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(path, b, logger).WithDebounce(20 * time.Millisecond)
	errc := make(chan error, 1)
	go func() { errc <- w.Watch(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"gridDensity":20}`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-changed:
		if m.Source != "file" {
			t.Errorf("expected source file, got %s", m.Source)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no config-changed message")
	}

	cancel()
	select {
	case <-errc:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestServeGroupStopsCleanly(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "config.json")
	b := bus.New(logger)
	s := New(Options{
		ConfigFile: path,
		Presets:    preset.NewRegistry(preset.NewMemoryStore(), logger),
		Bus:        b,
		Logger:     logger,
	})
	w := NewWatcher(path, b, logger)

	parent, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(parent)
	g.Go(func() error { return s.Run(ctx, "127.0.0.1:0") })
	g.Go(func() error { return w.Watch(ctx) })

	time.Sleep(100 * time.Millisecond)
	cancel()

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("group did not stop")
	}
}
