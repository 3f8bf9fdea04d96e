package pipeline

import (
	"bytes"
	"context"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/voronoi/pkg/observability"
	"github.com/matzehuels/voronoi/pkg/palette"
	"github.com/matzehuels/voronoi/pkg/voronoi"
)

// BuildPalettes blends the three color cycles for opts.
func BuildPalettes(opts Options) (palette.Cycles, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return palette.Cycles{}, err
	}
	return palette.NewCycles(opts.Colors, opts.BlendCount())
}

// Draw places the sites and rasterizes them without smoothing. opts.Seed is
// used as given, zero included.
func Draw(opts Options) ([]voronoi.Site, *image.RGBA, error) {
	d, err := draw(context.Background(), opts, nil)
	if err != nil {
		return nil, nil, err
	}
	return d.sites, d.raster, nil
}

// Render runs Draw and applies the smoothing filter.
func Render(opts Options) (*image.NRGBA, []voronoi.Site, error) {
	d, err := draw(context.Background(), opts, nil)
	if err != nil {
		return nil, nil, err
	}
	return voronoi.Smooth(d.raster), d.sites, nil
}

// EncodePNG encodes img losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type drawing struct {
	sites  []voronoi.Site
	raster *image.RGBA
}

// draw runs the palette, sites and rasterize stages, recording timings in
// stats when it is non-nil.
func draw(ctx context.Context, opts Options, stats *Stats) (*drawing, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Render()

	start := time.Now()
	cycles, err := palette.NewCycles(opts.Colors, opts.BlendCount())
	if err != nil {
		return nil, err
	}
	record(ctx, hooks, observability.StagePalette, start, stats)

	start = time.Now()
	sites, err := voronoi.Generate(voronoi.NewRand(opts.Seed), voronoi.GenerateOptions{
		Width:    opts.Width,
		Height:   opts.Height,
		NumCells: opts.NumCells,
	}, cycles)
	if err != nil {
		return nil, err
	}
	record(ctx, hooks, observability.StageSites, start, stats)

	start = time.Now()
	raster := voronoi.Rasterize(opts.Width, opts.Height, sites, opts.Fallback)
	record(ctx, hooks, observability.StageRasterize, start, stats)

	return &drawing{sites: sites, raster: raster}, nil
}

func record(ctx context.Context, hooks observability.RenderHooks, stage string, start time.Time, stats *Stats) {
	d := time.Since(start)
	hooks.OnStageComplete(ctx, stage, d)
	if stats == nil {
		return
	}
	switch stage {
	case observability.StagePalette:
		stats.PaletteTime = d
	case observability.StageSites:
		stats.SitesTime = d
	case observability.StageRasterize:
		stats.RasterTime = d
	case observability.StageSmooth:
		stats.SmoothTime = d
	case observability.StageEncode:
		stats.EncodeTime = d
	}
}
