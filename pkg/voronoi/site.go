package voronoi

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/matzehuels/voronoi/pkg/errors"
	"github.com/matzehuels/voronoi/pkg/palette"
)

// Site is a Voronoi seed: a canvas position and the color of its cell.
// Coordinates may lie outside the canvas.
type Site struct {
	X     int        `json:"x"`
	Y     int        `json:"y"`
	Color color.RGBA `json:"color"`
}

// String renders the site as "(x,y) #rrggbb".
func (s Site) String() string {
	return fmt.Sprintf("(%d,%d) #%02x%02x%02x", s.X, s.Y, s.Color.R, s.Color.G, s.Color.B)
}

// GenerateOptions sizes a batch of sites.
type GenerateOptions struct {
	Width    int
	Height   int
	NumCells int
}

// NewRand returns the PCG-backed generator used for site placement.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5eed5eed))
}

// Generate places opts.NumCells sites.
//
// Coordinates are drawn as x ~ N(w/2, w/2) and y ~ N(h/2, h/2) with integer
// halves, then truncated toward zero. Site i takes a uniformly random entry
// of cycles.ForSite(i). For each site the generator is consumed in the order
// x, y, color pick.
func Generate(rng *rand.Rand, opts GenerateOptions, cycles palette.Cycles) ([]Site, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "canvas must be at least 1x1, got %dx%d", opts.Width, opts.Height)
	}
	if opts.NumCells < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "num_cells cannot be negative, got %d", opts.NumCells)
	}
	if opts.NumCells > 0 {
		for i := range cycles {
			if len(cycles[i]) == 0 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "color cycle %d is empty", i+1)
			}
		}
	}

	meanX, stdX := float64(opts.Width/2), float64(opts.Width/2)
	meanY, stdY := float64(opts.Height/2), float64(opts.Height/2)

	sites := make([]Site, opts.NumCells)
	for i := range sites {
		x := int(rng.NormFloat64()*stdX + meanX)
		y := int(rng.NormFloat64()*stdY + meanY)

		cycle := cycles.ForSite(i)
		picked := cycle[rng.IntN(len(cycle))]

		sites[i] = Site{X: x, Y: y, Color: palette.ToRGBA(picked)}
	}
	return sites, nil
}
