package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type tickCounter struct {
	n atomic.Int64
}

func (c *tickCounter) Tick() { c.n.Add(1) }

func TestAnimatorRunsFrames(t *testing.T) {
	c := &tickCounter{}
	a := NewAnimator(c, 200)
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer a.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for c.n.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.n.Load() < 3 {
		t.Fatalf("expected frames, got %d", c.n.Load())
	}
}

func TestAnimatorNoFramesAfterStop(t *testing.T) {
	c := &tickCounter{}
	a := NewAnimator(c, 500)
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	a.Stop()

	after := c.n.Load()
	time.Sleep(30 * time.Millisecond)
	if c.n.Load() != after {
		t.Errorf("frames ran after Stop: %d -> %d", after, c.n.Load())
	}
	if a.Running() {
		t.Error("animator should not be running")
	}
}

func TestAnimatorDoubleStart(t *testing.T) {
	a := NewAnimator(&tickCounter{}, 60)
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer a.Stop()
	if err := a.Start(context.Background()); !errors.Is(err, ErrRunning) {
		t.Errorf("expected ErrRunning, got %v", err)
	}
}

func TestAnimatorRestart(t *testing.T) {
	c := &tickCounter{}
	a := NewAnimator(c, 500)
	a.Stop()

	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	a.Stop()
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("restart after stop failed: %v", err)
	}
	a.Stop()
}

func TestAnimatorContextCancel(t *testing.T) {
	c := &tickCounter{}
	a := NewAnimator(c, 500)
	ctx, cancel := context.WithCancel(context.Background())
	if err := a.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	a.Stop()

	after := c.n.Load()
	time.Sleep(20 * time.Millisecond)
	if c.n.Load() != after {
		t.Error("frames ran after context cancel")
	}
}

func TestDebouncerTrailingEdge(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls, last atomic.Int64

	for i := 1; i <= 5; i++ {
		v := int64(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(v)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(120 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("expected one call, got %d", calls.Load())
	}
	if last.Load() != 5 {
		t.Errorf("expected the latest call to win, got %d", last.Load())
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int64
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("stopped debouncer should not fire")
	}
}
