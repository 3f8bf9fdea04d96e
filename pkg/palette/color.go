package palette

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/voronoi/pkg/errors"
)

// shortColors are the single-letter base colors accepted by most plotting
// libraries. Values are fractions, not 0-255 bytes.
var shortColors = map[string]colorful.Color{
	"b": {R: 0, G: 0, B: 1},
	"g": {R: 0, G: 0.5, B: 0},
	"r": {R: 1, G: 0, B: 0},
	"c": {R: 0, G: 0.75, B: 0.75},
	"m": {R: 0.75, G: 0, B: 0.75},
	"y": {R: 0.75, G: 0.75, B: 0},
	"k": {R: 0, G: 0, B: 0},
	"w": {R: 1, G: 1, B: 1},
}

// Resolve converts a color identifier into an RGB color with channels in [0, 1].
//
// Accepted identifiers:
//   - CSS/SVG color names ("red", "cornflowerblue"), case-insensitive
//   - single-letter base colors ("r", "g", "b", "c", "m", "y", "k", "w")
//   - hex strings "#rgb" or "#rrggbb"
//
// Unknown identifiers return an INVALID_COLOR configuration error.
func Resolve(name string) (colorful.Color, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return colorful.Color{}, errors.New(errors.ErrCodeInvalidColor, "color name cannot be empty")
	}

	if strings.HasPrefix(key, "#") {
		c, err := colorful.Hex(key)
		if err != nil {
			return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid hex color %q", name)
		}
		return c, nil
	}

	if c, ok := shortColors[key]; ok {
		return c, nil
	}

	if rgba, ok := colornames.Map[key]; ok {
		return colorful.Color{
			R: float64(rgba.R) / 255,
			G: float64(rgba.G) / 255,
			B: float64(rgba.B) / 255,
		}, nil
	}

	return colorful.Color{}, errors.New(errors.ErrCodeInvalidColor, "unknown color %q", name)
}

// ResolveAll resolves every identifier, failing on the first unknown one.
func ResolveAll(names []string) ([]colorful.Color, error) {
	out := make([]colorful.Color, len(names))
	for i, name := range names {
		c, err := Resolve(name)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
