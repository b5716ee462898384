package config

// DefaultHistoryLimit bounds the number of snapshots kept for undo.
const DefaultHistoryLimit = 50

// History is a bounded linear undo/redo list of config snapshots.
type History struct {
	snapshots []Config
	cursor    int
	limit     int
}

func NewHistory(limit int, initial Config) *History {
	if limit < 2 {
		limit = 2
	}
	return &History{
		snapshots: []Config{initial},
		limit:     limit,
	}
}

// Push records c as the newest snapshot, discarding any redo tail and the
// oldest entries beyond the limit.
func (h *History) Push(c Config) {
	if h.snapshots[h.cursor] == c {
		return
	}
	h.snapshots = append(h.snapshots[:h.cursor+1], c)
	if len(h.snapshots) > h.limit {
		h.snapshots = h.snapshots[len(h.snapshots)-h.limit:]
	}
	h.cursor = len(h.snapshots) - 1
}

func (h *History) Undo() (Config, bool) {
	if h.cursor == 0 {
		return h.snapshots[0], false
	}
	h.cursor--
	return h.snapshots[h.cursor], true
}

func (h *History) Redo() (Config, bool) {
	if h.cursor == len(h.snapshots)-1 {
		return h.snapshots[h.cursor], false
	}
	h.cursor++
	return h.snapshots[h.cursor], true
}

func (h *History) Current() Config { return h.snapshots[h.cursor] }
func (h *History) Len() int        { return len(h.snapshots) }
func (h *History) CanUndo() bool   { return h.cursor > 0 }
func (h *History) CanRedo() bool   { return h.cursor < len(h.snapshots)-1 }

// Reset drops all history and starts again from c.
func (h *History) Reset(c Config) {
	h.snapshots = []Config{c}
	h.cursor = 0
}
