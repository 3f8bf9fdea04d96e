package palette

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/voronoi/pkg/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want colorful.Color
	}{
		{"css red", "red", colorful.Color{R: 1, G: 0, B: 0}},
		{"css green is half intensity", "green", colorful.Color{R: 0, G: 128.0 / 255, B: 0}},
		{"css upper case", "BLUE", colorful.Color{R: 0, G: 0, B: 1}},
		{"css padded", "  white ", colorful.Color{R: 1, G: 1, B: 1}},
		{"short g", "g", colorful.Color{R: 0, G: 0.5, B: 0}},
		{"short k", "k", colorful.Color{R: 0, G: 0, B: 0}},
		{"hex long", "#ff0000", colorful.Color{R: 1, G: 0, B: 0}},
		{"hex short", "#00f", colorful.Color{R: 0, G: 0, B: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.in)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.in, err)
			}
			if !got.AlmostEqualRgb(tt.want) {
				t.Errorf("Resolve(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	for _, in := range []string{"", "notacolor", "#12", "#gggggg", "xkcd:puke"} {
		t.Run(in, func(t *testing.T) {
			_, err := Resolve(in)
			if err == nil {
				t.Fatalf("Resolve(%q) should fail", in)
			}
			if !errors.IsConfiguration(err) {
				t.Errorf("Resolve(%q) error %v should be a configuration error", in, err)
			}
			if !errors.Is(err, errors.ErrCodeInvalidColor) {
				t.Errorf("Resolve(%q) code = %v, want %v", in, errors.GetCode(err), errors.ErrCodeInvalidColor)
			}
		})
	}
}

func TestResolveAll(t *testing.T) {
	colors, err := ResolveAll([]string{"red", "lime", "blue"})
	if err != nil {
		t.Fatalf("ResolveAll error: %v", err)
	}
	if len(colors) != 3 {
		t.Fatalf("len = %d, want 3", len(colors))
	}

	if _, err := ResolveAll([]string{"red", "bogus"}); err == nil {
		t.Error("ResolveAll should fail on unknown color")
	}
}
