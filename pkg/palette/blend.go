package palette

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/voronoi/pkg/errors"
)

// lutSize is the resolution of the blend lookup table.
const lutSize = 256

// Blend returns n colors sampled evenly from a linear RGB blend across the
// named colors, in order. The first sample is the first color and, for n > 1,
// the last sample is the last color.
//
// Samples are taken from a 256-entry lookup table: sample t in [0, 1] maps to
// entry min(int(t*256), 255). Neighbouring samples can therefore land on the
// same entry once n exceeds 256.
//
// n <= 0 yields an empty palette; names are still resolved so unknown colors
// are reported either way.
func Blend(names []string, n int) ([]colorful.Color, error) {
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidColor, "blend needs at least one color")
	}
	anchors, err := ResolveAll(names)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []colorful.Color{}, nil
	}

	table := lookupTable(anchors)
	out := make([]colorful.Color, n)
	if n == 1 {
		out[0] = table[0]
		return out, nil
	}

	step := 1.0 / float64(n-1)
	for i := range out {
		t := float64(i) * step
		if i == n-1 {
			t = 1
		}
		out[i] = table[lutIndex(t)]
	}
	return out, nil
}

// lutIndex maps a position in [0, 1] to a lookup table entry.
func lutIndex(t float64) int {
	idx := int(t * lutSize)
	if idx < 0 {
		return 0
	}
	if idx > lutSize-1 {
		return lutSize - 1
	}
	return idx
}

// lookupTable interpolates the anchors, spaced evenly on [0, 1], into a
// lutSize-entry table. Entry i sits at position i/(lutSize-1).
func lookupTable(anchors []colorful.Color) []colorful.Color {
	table := make([]colorful.Color, lutSize)
	segments := len(anchors) - 1
	if segments == 0 {
		for i := range table {
			table[i] = anchors[0].Clamped()
		}
		return table
	}

	for i := range table {
		pos := float64(i) / float64(lutSize-1) * float64(segments)
		k := int(pos)
		if k >= segments {
			k = segments - 1
		}
		table[i] = anchors[k].BlendRgb(anchors[k+1], pos-float64(k)).Clamped()
	}
	table[0] = anchors[0].Clamped()
	table[lutSize-1] = anchors[segments].Clamped()
	return table
}
