package mesh

import "errors"

// Domain errors for grid and force-model operations.
var (
	// ErrInvalidSpacing indicates a grid spacing that is zero, negative or NaN.
	ErrInvalidSpacing = errors.New("mesh: grid spacing must be positive")

	// ErrInvalidViewport indicates a viewport with a non-positive dimension.
	ErrInvalidViewport = errors.New("mesh: viewport dimensions must be positive")

	// ErrUnknownMode indicates an interaction mode name outside the four supported.
	ErrUnknownMode = errors.New("mesh: unknown interaction mode")
)
