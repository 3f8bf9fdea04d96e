package palette

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/voronoi/pkg/errors"
)

// Mode selects how long each color cycle is.
type Mode string

// Palette modes.
const (
	// ModeFixed builds three-entry cycles, one entry per base color.
	ModeFixed Mode = "fixed"

	// ModeBlend builds cycles whose length is the requested blend multiplier.
	ModeBlend Mode = "blend"
)

const (
	// FixedBlendCount is the cycle length in ModeFixed.
	FixedBlendCount = 3

	// MaxBlendCount caps the cycle length in ModeBlend.
	MaxBlendCount = lutSize
)

// ParseMode validates a palette mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFixed, ModeBlend:
		return Mode(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidPaletteMode, "invalid palette mode: %q (must be one of: fixed, blend)", s)
}

// BlendCount returns the cycle length for a mode.
// ModeBlend requires a positive multiplier and clamps it to MaxBlendCount.
func BlendCount(mode Mode, multiplier int) (int, error) {
	switch mode {
	case ModeFixed:
		return FixedBlendCount, nil
	case ModeBlend:
		if multiplier <= 0 {
			return 0, errors.New(errors.ErrCodeInvalidInput, "blend_multiplier must be positive, got %d", multiplier)
		}
		return min(multiplier, MaxBlendCount), nil
	}
	return 0, errors.New(errors.ErrCodeInvalidPaletteMode, "invalid palette mode: %q", mode)
}

// Cycles holds the three rotated color cycles of a render.
type Cycles [3][]colorful.Color

// NewCycles blends the three rotations of base, each with count entries.
func NewCycles(base [3]string, count int) (Cycles, error) {
	rotations := [3][]string{
		{base[0], base[1], base[2]},
		{base[1], base[2], base[0]},
		{base[2], base[0], base[1]},
	}

	var c Cycles
	for i, names := range rotations {
		colors, err := Blend(names, count)
		if err != nil {
			return Cycles{}, err
		}
		c[i] = colors
	}
	return c, nil
}

// ForSite returns the cycle a site index draws from:
// even indices use cycle 1, odd multiples of three use cycle 2, the rest cycle 3.
func (c Cycles) ForSite(i int) []colorful.Color {
	switch {
	case i%2 == 0:
		return c[0]
	case i%3 == 0:
		return c[1]
	default:
		return c[2]
	}
}

// ToRGBA scales a [0, 1] color to 8-bit channels by truncating v*256.
// A channel of exactly 1.0 would scale to 256 and is clamped to 255.
func ToRGBA(c colorful.Color) color.RGBA {
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: 255}
}

func scale(v float64) uint8 {
	n := int(v * 256)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
