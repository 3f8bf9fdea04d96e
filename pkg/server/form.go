package server

import (
	"net/url"
	"strings"

	"github.com/matzehuels/voronoi/pkg/errors"
	"github.com/matzehuels/voronoi/pkg/palette"
	"github.com/matzehuels/voronoi/pkg/pipeline"
)

// Form field names.
const (
	fieldColor1   = "colorList1"
	fieldColor2   = "colorList2"
	fieldColor3   = "colorList3"
	fieldWidth    = "width"
	fieldHeight   = "height"
	fieldNumCells = "num_cells"
	fieldFilename = "chosen_filename"
	fieldBlend    = "blend_multiplier"
	fieldSeed     = "seed"
)

// ParseForm maps submitted form values to render options. Numeric fields
// must be well-formed integers; nothing is coerced. A non-empty
// blend_multiplier selects blend mode.
func ParseForm(v url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error

	opts.Colors = [3]string{v.Get(fieldColor1), v.Get(fieldColor2), v.Get(fieldColor3)}
	for i, c := range opts.Colors {
		if strings.TrimSpace(c) == "" {
			return opts, errors.New(errors.ErrCodeInvalidInput, "colorList%d is required", i+1)
		}
	}

	if opts.Width, err = errors.ParsePositiveInt(fieldWidth, v.Get(fieldWidth)); err != nil {
		return opts, err
	}
	if opts.Height, err = errors.ParsePositiveInt(fieldHeight, v.Get(fieldHeight)); err != nil {
		return opts, err
	}
	if opts.NumCells, err = errors.ParseNonNegativeInt(fieldNumCells, v.Get(fieldNumCells)); err != nil {
		return opts, err
	}

	if raw := strings.TrimSpace(v.Get(fieldBlend)); raw != "" {
		if opts.BlendMultiplier, err = errors.ParsePositiveInt(fieldBlend, raw); err != nil {
			return opts, err
		}
		opts.Mode = palette.ModeBlend
	} else {
		opts.Mode = palette.ModeFixed
	}

	if raw := strings.TrimSpace(v.Get(fieldSeed)); raw != "" {
		if opts.Seed, err = errors.ParseUint64(fieldSeed, raw); err != nil {
			return opts, err
		}
	}

	opts.Filename = strings.TrimSpace(v.Get(fieldFilename))
	return opts, nil
}
