package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/voronoi/pkg/errors"
	"github.com/matzehuels/voronoi/pkg/pipeline"
)

type renderOpts struct {
	output      string
	width       int
	height      int
	cells       int
	colors      string
	blend       int
	seed        uint64
	noCache     bool
	refresh     bool
	showPalette bool
}

// renderCommand creates the render command, which writes a diagram to disk.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		output: "voronoi.png",
		width:  pipeline.DefaultWidth,
		height: pipeline.DefaultHeight,
		cells:  pipeline.DefaultNumCells,
		colors: strings.Join(pipeline.DefaultColors[:], ","),
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a diagram to a PNG file",
		Long: `Render a diagram to a PNG file.

Colors are three names or hex values. Without --blend each cycle holds the
three base colors; --blend N blends N entries per cycle, capped at 256.
Renders with a --seed are reproducible and cached.`,
		Example: `  voronoi render -o out.png
  voronoi render --width 1920 --height 1080 --cells 200 --colors navy,gold,tomato
  voronoi render --blend 5 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", opts.output, "output file")
	f.IntVar(&opts.width, "width", opts.width, "image width in pixels")
	f.IntVar(&opts.height, "height", opts.height, "image height in pixels")
	f.IntVarP(&opts.cells, "cells", "n", opts.cells, "number of cells")
	f.StringVar(&opts.colors, "colors", opts.colors, "three comma-separated base colors")
	f.IntVar(&opts.blend, "blend", 0, "entries per blended cycle (0 keeps the three base colors)")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed (0 draws a new one)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	f.BoolVar(&opts.showPalette, "show-palette", false, "print the color cycles")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts renderOpts) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	colors, err := parseColors(opts.colors)
	if err != nil {
		return err
	}
	fallback, err := cfg.Render.FallbackColor()
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Width:           opts.width,
		Height:          opts.height,
		NumCells:        opts.cells,
		Colors:          colors,
		BlendMultiplier: opts.blend,
		Seed:            opts.seed,
		Fallback:        fallback,
		Refresh:         opts.refresh,
		Logger:          loggerFromContext(ctx),
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache, true)
	if err != nil {
		return err
	}
	defer runner.Close()
	runner.Limits = cfg.Render.Limits

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %dx%d with %d cells", popts.Width, popts.Height, popts.NumCells))
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(opts.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(opts.output, result.PNG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	printSuccess("Rendered %dx%d diagram with %d cells", result.Width, result.Height, len(result.Sites))
	printFile(opts.output)
	printKeyValue("seed", fmt.Sprintf("%d", result.Seed))
	printStats(result.Stats, result.CacheHit)

	if opts.showPalette {
		cycles, err := pipeline.BuildPalettes(popts)
		if err != nil {
			return err
		}
		printCycles(cycles)
	}
	return nil
}

// parseColors splits a comma-separated list of exactly three colors.
func parseColors(s string) ([3]string, error) {
	var out [3]string
	parts := strings.Split(s, ",")
	if len(parts) != len(out) {
		return out, errors.New(errors.ErrCodeInvalidInput, "--colors needs exactly 3 colors, got %d", len(parts))
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return out, errors.New(errors.ErrCodeInvalidInput, "--colors entry %d is empty", i+1)
		}
		out[i] = p
	}
	return out, nil
}
