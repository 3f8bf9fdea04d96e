package voronoi

import (
	"image"

	"github.com/disintegration/imaging"
)

// smoothKernel is the classic 3×3 SMOOTH filter, normalized by its sum (13).
var smoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// Smooth applies the fixed SMOOTH convolution to soften cell boundaries.
// Border pixels keep their original values.
func Smooth(img image.Image) *image.NRGBA {
	out := imaging.Convolve3x3(img, smoothKernel, &imaging.ConvolveOptions{Normalize: true})

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for x := 0; x < w; x++ {
		out.Set(x, 0, img.At(b.Min.X+x, b.Min.Y))
		out.Set(x, h-1, img.At(b.Min.X+x, b.Max.Y-1))
	}
	for y := 0; y < h; y++ {
		out.Set(0, y, img.At(b.Min.X, b.Min.Y+y))
		out.Set(w-1, y, img.At(b.Max.X-1, b.Min.Y+y))
	}
	return out
}
