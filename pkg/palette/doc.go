// Package palette resolves color identifiers and builds the blended color
// cycles that sites draw their colors from.
//
// A cycle is an ordered list of colors sampled from a linear blend across
// three base colors. Three cycles are built per render, one for each rotation
// of the base colors:
//
//	c1 → c2 → c3
//	c2 → c3 → c1
//	c3 → c1 → c2
//
// Blending goes through a 256-entry lookup table, so a cycle can never hold
// more than [MaxBlendCount] distinct entries and requested lengths are
// clamped to that bound.
//
// Two palette modes exist:
//
//   - [ModeFixed]: every cycle has exactly three entries (one per base color).
//   - [ModeBlend]: cycle length is the requested blend multiplier, clamped to 256.
//
// # Usage
//
//	n, err := palette.BlendCount(palette.ModeBlend, 12)
//	cycles, err := palette.NewCycles([3]string{"red", "green", "blue"}, n)
//	entry := cycles.ForSite(i)[k]
//	rgba := palette.ToRGBA(entry)
package palette
