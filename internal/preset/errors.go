package preset

import "errors"

var (
	ErrBuiltin      = errors.New("preset: built-in presets are read-only")
	ErrNotFound     = errors.New("preset: not found")
	ErrNotConfirmed = errors.New("preset: deletion not confirmed")
	ErrEmptyName    = errors.New("preset: name is empty")
)
