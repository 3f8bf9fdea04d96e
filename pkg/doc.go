// Package pkg holds the libraries behind the voronoi command.
//
// # Overview
//
// Voronoi renders images partitioned into cells around randomly placed
// sites. Each site takes a color from one of three color cycles, and every
// pixel is painted with the color of its nearest site.
//
//  1. [palette] - Color names, cycle blending and modes
//  2. [voronoi] - Site placement, rasterization and the smoothing filter
//  3. [pipeline] - Options, validation and cached rendering
//  4. [server] - The HTTP form and PNG endpoint
//  5. [cache] - File, Redis and null artifact caches
//
// # Architecture
//
//	Options (form, flags or preview keys)
//	         ↓
//	    [palette] (three color cycles)
//	         ↓
//	    [voronoi] (sites → raster → smooth)
//	         ↓
//	    [pipeline] (PNG, cache, timings)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Width:           800,
//	    Height:          600,
//	    NumCells:        50,
//	    Colors:          [3]string{"red", "green", "blue"},
//	    BlendMultiplier: 5,
//	    Seed:            42,
//	})
//
// # Supporting Packages
//
//   - [errors] - Coded errors and their HTTP status mapping
//   - [observability] - Render, cache and HTTP hooks with a Prometheus sink
//   - [buildinfo] - Version information set at link time
//
// [palette]: github.com/matzehuels/voronoi/pkg/palette
// [voronoi]: github.com/matzehuels/voronoi/pkg/voronoi
// [pipeline]: github.com/matzehuels/voronoi/pkg/pipeline
// [server]: github.com/matzehuels/voronoi/pkg/server
// [cache]: github.com/matzehuels/voronoi/pkg/cache
// [errors]: github.com/matzehuels/voronoi/pkg/errors
// [observability]: github.com/matzehuels/voronoi/pkg/observability
// [buildinfo]: github.com/matzehuels/voronoi/pkg/buildinfo
package pkg
