package voronoi

import (
	"image"
	"image/color"
	"math"
)

// DefaultFallback fills pixels when there are no sites at all.
var DefaultFallback = color.RGBA{A: 255}

// Rasterize paints a width×height canvas, giving every pixel the color of
// its nearest site. Pixels are visited row by row.
//
// The search for each pixel starts with the canvas diagonal as the distance
// to beat. A pixel that no site beats (every site lies at least a diagonal
// away) falls back to an unbounded search, so the result is always the true
// nearest site. Equal distances keep the earlier site. With no sites every
// pixel takes the fallback color.
func Rasterize(width, height int, sites []Site, fallback color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bound := math.Hypot(float64(width-1), float64(height-1))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := fallback
			if j := NearestWithin(x, y, sites, bound); j >= 0 {
				c = sites[j].Color
			} else if j := Nearest(x, y, sites); j >= 0 {
				c = sites[j].Color
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// NearestWithin returns the index of the first site strictly closer to (x, y)
// than bound, taking the minimum over all sites, or -1 if none is.
func NearestWithin(x, y int, sites []Site, bound float64) int {
	dmin := bound
	j := -1
	for i, s := range sites {
		d := math.Hypot(float64(s.X-x), float64(s.Y-y))
		if d < dmin {
			dmin = d
			j = i
		}
	}
	return j
}

// Nearest returns the index of the site closest to (x, y), the earliest on
// ties, or -1 if sites is empty.
func Nearest(x, y int, sites []Site) int {
	return NearestWithin(x, y, sites, math.Inf(1))
}
