package config

import "testing"

func TestHistoryUndoRedo(t *testing.T) {
	base := DefaultConfig()
	h := NewHistory(DefaultHistoryLimit, base)

	a := base.Merge(Patch{GridDensity: Float(30)})
	b := a.Merge(Patch{LineColor: String("#000000")})
	h.Push(a)
	h.Push(b)

	got, ok := h.Undo()
	if !ok || got != a {
		t.Fatalf("undo should return a, got %+v", got)
	}
	got, ok = h.Undo()
	if !ok || got != base {
		t.Fatalf("second undo should return base, got %+v", got)
	}
	if _, ok := h.Undo(); ok {
		t.Error("undo past start should fail")
	}

	got, ok = h.Redo()
	if !ok || got != a {
		t.Fatalf("redo should return a, got %+v", got)
	}

	c := a.Merge(Patch{InteractionRadius: Float(90)})
	h.Push(c)
	if h.CanRedo() {
		t.Error("push should discard redo tail")
	}
	if h.Current() != c {
		t.Error("current should be c")
	}
}

func TestHistoryDedup(t *testing.T) {
	h := NewHistory(10, DefaultConfig())
	h.Push(DefaultConfig())
	if h.Len() != 1 {
		t.Errorf("identical push should be ignored, len=%d", h.Len())
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory(5, DefaultConfig())
	for i := 1; i <= 10; i++ {
		h.Push(DefaultConfig().Merge(Patch{GridDensity: Float(float64(10 + i))}))
	}
	if h.Len() != 5 {
		t.Fatalf("expected 5 snapshots, got %d", h.Len())
	}

	undos := 0
	for h.CanUndo() {
		h.Undo()
		undos++
	}
	if undos != 4 {
		t.Errorf("expected 4 undos, got %d", undos)
	}
	if h.Current().GridDensity != 16 {
		t.Errorf("oldest kept snapshot should be density 16, got %v", h.Current().GridDensity)
	}
}

func TestHistoryReset(t *testing.T) {
	h := NewHistory(10, DefaultConfig())
	h.Push(DefaultConfig().Merge(Patch{GridDensity: Float(20)}))
	h.Reset(DefaultConfig())
	if h.Len() != 1 || h.CanUndo() || h.CanRedo() {
		t.Error("reset should clear history")
	}
}
