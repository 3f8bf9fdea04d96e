// Package pipeline turns render options into a finished Voronoi PNG.
//
// The pipeline is shared by the HTTP server, the render command and the
// terminal preview so that every entry point validates and renders the same
// way.
//
// # Stages
//
//  1. Palette: blend the three color cycles
//  2. Sites: place the sites using the seeded generator
//  3. Rasterize: paint every pixel with its nearest site
//  4. Smooth: apply the SMOOTH post-filter
//  5. Encode: write a lossless PNG
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Width:    640,
//	    Height:   480,
//	    NumCells: 40,
//	    Colors:   [3]string{"red", "green", "blue"},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("out.png", result.PNG, 0o644)
//
// The stage functions [BuildPalettes], [Draw] and [Render] can be used on
// their own when no caching or PNG output is needed.
package pipeline

import (
	"fmt"
	"image/color"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/voronoi/pkg/cache"
	"github.com/matzehuels/voronoi/pkg/errors"
	"github.com/matzehuels/voronoi/pkg/palette"
	"github.com/matzehuels/voronoi/pkg/voronoi"
)

// Defaults used by the CLI when a flag is not given.
const (
	DefaultWidth    = 800
	DefaultHeight   = 600
	DefaultNumCells = 50
)

// DefaultColors are the base colors used when none are given.
var DefaultColors = [3]string{"red", "green", "blue"}

// Options describes a single render. The JSON form is what the cache keys
// and logs see.
type Options struct {
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	NumCells int       `json:"num_cells"`
	Colors   [3]string `json:"colors"`

	// Mode is derived from BlendMultiplier when empty: a positive
	// multiplier selects blend mode, zero selects fixed mode.
	Mode            palette.Mode `json:"mode,omitempty"`
	BlendMultiplier int          `json:"blend_multiplier,omitempty"`

	// Filename is the base name offered to the client, without extension.
	Filename string `json:"filename,omitempty"`

	// Seed makes the render reproducible. Zero asks the runner to draw one.
	Seed uint64 `json:"seed,omitempty"`

	// Fallback paints the canvas when there are no sites. Zero means black.
	Fallback color.RGBA `json:"-"`

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Limits bounds what a caller may request. Zero fields are unlimited.
type Limits struct {
	MaxWidth  int `json:"max_width" toml:"max_width" yaml:"max_width"`
	MaxHeight int `json:"max_height" toml:"max_height" yaml:"max_height"`
	MaxCells  int `json:"max_cells" toml:"max_cells" yaml:"max_cells"`
}

// Check rejects options that exceed l.
func (l Limits) Check(o Options) error {
	if l.MaxWidth > 0 && o.Width > l.MaxWidth {
		return errors.New(errors.ErrCodeInvalidDimensions, "width %d exceeds the limit of %d", o.Width, l.MaxWidth)
	}
	if l.MaxHeight > 0 && o.Height > l.MaxHeight {
		return errors.New(errors.ErrCodeInvalidDimensions, "height %d exceeds the limit of %d", o.Height, l.MaxHeight)
	}
	if l.MaxCells > 0 && o.NumCells > l.MaxCells {
		return errors.New(errors.ErrCodeInvalidInput, "num_cells %d exceeds the limit of %d", o.NumCells, l.MaxCells)
	}
	return nil
}

// Result is the output of Runner.Execute.
type Result struct {
	PNG      []byte
	Width    int
	Height   int
	Sites    []voronoi.Site
	Seed     uint64
	Stats    Stats
	CacheHit bool
}

// Stats holds per-stage timings. On a cache hit only Total is set.
type Stats struct {
	PaletteTime time.Duration
	SitesTime   time.Duration
	RasterTime  time.Duration
	SmoothTime  time.Duration
	EncodeTime  time.Duration
	Total       time.Duration
}

// ValidateAndSetDefaults checks the options and fills in derived values.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "width and height must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.NumCells < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "num_cells cannot be negative, got %d", o.NumCells)
	}
	for i, c := range o.Colors {
		o.Colors[i] = strings.TrimSpace(c)
		if o.Colors[i] == "" {
			return errors.New(errors.ErrCodeInvalidInput, "colorList%d is required", i+1)
		}
	}

	if o.Mode == "" {
		o.Mode = palette.ModeFixed
		if o.BlendMultiplier > 0 {
			o.Mode = palette.ModeBlend
		}
	} else if _, err := palette.ParseMode(string(o.Mode)); err != nil {
		return err
	}
	if o.Mode == palette.ModeFixed && o.BlendMultiplier != 0 {
		return errors.New(errors.ErrCodeInvalidInput, "blend_multiplier is only valid in blend mode")
	}
	if _, err := palette.BlendCount(o.Mode, o.BlendMultiplier); err != nil {
		return err
	}

	if o.Filename != "" {
		if err := errors.ValidateFilename(o.Filename); err != nil {
			return err
		}
	}
	if o.Fallback == (color.RGBA{}) {
		o.Fallback = voronoi.DefaultFallback
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// BlendCount is the cycle length these options produce.
func (o *Options) BlendCount() int {
	n, _ := palette.BlendCount(o.Mode, o.BlendMultiplier)
	return n
}

// ArtifactKeyOpts returns the cache key fields for these options.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Width:      o.Width,
		Height:     o.Height,
		NumCells:   o.NumCells,
		Colors:     o.Colors,
		Mode:       string(o.Mode),
		BlendCount: o.BlendCount(),
		Seed:       o.Seed,
		Fallback:   fmt.Sprintf("#%02x%02x%02x", o.Fallback.R, o.Fallback.G, o.Fallback.B),
	}
}

// NewSeed draws a fresh non-zero seed.
func NewSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}
