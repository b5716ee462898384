package render

import "errors"

var (
	ErrUnknownFormat  = errors.New("render: unknown output format")
	ErrUnknownVariant = errors.New("render: unknown variant")
	ErrNoFrames       = errors.New("render: no frames captured")
)
