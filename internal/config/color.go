package config

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ValidateHex accepts exactly "#RRGGBB".
func ValidateHex(hex string) error {
	if len(hex) != 7 || hex[0] != '#' {
		return fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	if _, err := colorful.Hex(hex); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return nil
}

// RGBA converts a hex colour to a non-premultiplied colour with the given
// alpha. Alpha is clamped to [0, 1]. Invalid hex yields transparent black.
func RGBA(hex string, alpha float64) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(alpha)*255 + 0.5)}
}

// Blend mixes two hex colours in RGB space; t=0 is a, t=1 is b.
func Blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return b
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendRgb(cb, clamp01(t)).Clamped().Hex()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
