package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/voronoi/pkg/cache"
	"github.com/matzehuels/voronoi/pkg/observability"
	"github.com/matzehuels/voronoi/pkg/voronoi"
)

const cacheKeyType = "artifact"

// Runner executes the pipeline with optional result caching.
//
// A Runner holds no per-render state; concurrent Execute calls are safe as
// long as the cache is.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Limits Limits
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// cachedRender is the value stored in the cache.
type cachedRender struct {
	PNG   []byte         `json:"png"`
	Sites []voronoi.Site `json:"sites"`
}

// Execute validates opts and renders a PNG. Renders with an explicit seed
// are looked up in and stored to the cache; unseeded renders draw a fresh
// seed and are never cached.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := r.Limits.Check(opts); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	seeded := opts.Seed != 0
	if !seeded {
		opts.Seed = NewSeed()
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, opts.Width, opts.Height, opts.NumCells)
	defer func() {
		hooks.OnRenderComplete(ctx, time.Since(start), err)
	}()

	var key string
	if seeded {
		key = r.Keyer.ArtifactKey(opts.ArtifactKeyOpts())
		if !opts.Refresh {
			if res, ok := r.lookup(ctx, key, opts); ok {
				res.Stats.Total = time.Since(start)
				opts.Logger.Debug("cache hit", "key", key)
				return res, nil
			}
		}
	}

	result = &Result{Width: opts.Width, Height: opts.Height, Seed: opts.Seed}

	d, err := draw(ctx, opts, &result.Stats)
	if err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}
	result.Sites = d.sites

	smoothStart := time.Now()
	img := voronoi.Smooth(d.raster)
	record(ctx, hooks, observability.StageSmooth, smoothStart, &result.Stats)

	encodeStart := time.Now()
	result.PNG, err = EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	record(ctx, hooks, observability.StageEncode, encodeStart, &result.Stats)

	if seeded {
		r.store(ctx, key, result)
	}

	result.Stats.Total = time.Since(start)
	opts.Logger.Info("rendered diagram",
		"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"cells", opts.NumCells,
		"mode", opts.Mode,
		"seed", opts.Seed,
		"duration", result.Stats.Total)
	return result, nil
}

func (r *Runner) lookup(ctx context.Context, key string, opts Options) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache lookup failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}

	var cached cachedRender
	if err := json.Unmarshal(data, &cached); err != nil || len(cached.PNG) == 0 {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return &Result{
		PNG:      cached.PNG,
		Width:    opts.Width,
		Height:   opts.Height,
		Sites:    cached.Sites,
		Seed:     opts.Seed,
		CacheHit: true,
	}, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(cachedRender{PNG: res.PNG, Sites: res.Sites})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache store failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
