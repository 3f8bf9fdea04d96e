// Package voronoi generates Voronoi sites and rasterizes them by brute force.
//
// Sites are scattered with Gaussian noise around the canvas center and each
// takes a color from one of three palette cycles. Rasterization scans every
// site for every pixel and paints the pixel with the color of the nearest
// one. There is no spatial index, so the cost is
// O(width × height × len(sites)).
//
// # Determinism
//
// All randomness comes from the *rand.Rand passed to [Generate]. Two calls
// with generators built by [NewRand] from the same seed return identical
// sites, and [Rasterize] is a pure function of its inputs.
//
// # Usage
//
//	rng := voronoi.NewRand(42)
//	sites, err := voronoi.Generate(rng, voronoi.GenerateOptions{Width: 640, Height: 480, NumCells: 50}, cycles)
//	canvas := voronoi.Rasterize(640, 480, sites, voronoi.DefaultFallback)
//	img := voronoi.Smooth(canvas)
package voronoi
