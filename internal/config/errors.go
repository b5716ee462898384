package config

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDensity  = errors.New("config: gridDensity must be positive")
	ErrInvalidRadius   = errors.New("config: interactionRadius must be positive")
	ErrInvalidColor    = errors.New("config: color must be a #RRGGBB hex string")
	ErrInvalidMode     = errors.New("config: unknown interactionType")
	ErrUnknownTemplate = errors.New("config: unknown template")
	ErrInvalidFPS      = errors.New("config: fps must be positive")
	ErrInvalidViewport = errors.New("config: viewport must be positive")
)

// FieldError reports which config field failed validation.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s=%v: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
