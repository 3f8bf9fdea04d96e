package palette

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestBlendLength(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 256, 500} {
		colors, err := Blend([]string{"red", "green", "blue"}, n)
		if err != nil {
			t.Fatalf("Blend(n=%d) error: %v", n, err)
		}
		if len(colors) != n {
			t.Errorf("Blend(n=%d) returned %d colors", n, len(colors))
		}
	}
}

func TestBlendEmpty(t *testing.T) {
	colors, err := Blend([]string{"red"}, 0)
	if err != nil {
		t.Fatalf("Blend error: %v", err)
	}
	if len(colors) != 0 {
		t.Errorf("Blend(n=0) returned %d colors, want 0", len(colors))
	}

	if _, err := Blend([]string{"nope"}, 0); err == nil {
		t.Error("Blend should still resolve names when n=0")
	}
	if _, err := Blend(nil, 3); err == nil {
		t.Error("Blend without colors should fail")
	}
}

func TestBlendEndpoints(t *testing.T) {
	colors, err := Blend([]string{"red", "green", "blue"}, 3)
	if err != nil {
		t.Fatalf("Blend error: %v", err)
	}

	if !colors[0].AlmostEqualRgb(colorful.Color{R: 1}) {
		t.Errorf("first = %v, want red", colors[0])
	}
	if !colors[2].AlmostEqualRgb(colorful.Color{B: 1}) {
		t.Errorf("last = %v, want blue", colors[2])
	}

	// The middle sample lands on LUT entry 128, one step past the green anchor.
	mid := colors[1]
	if mid.R != 0 {
		t.Errorf("mid.R = %v, want 0", mid.R)
	}
	if math.Abs(mid.G-0.5) > 0.01 || mid.B <= 0 || mid.B > 0.01 {
		t.Errorf("mid = %v, want just past green toward blue", mid)
	}
}

func TestBlendChannelRange(t *testing.T) {
	colors, err := Blend([]string{"#ffffff", "black", "orange"}, 256)
	if err != nil {
		t.Fatalf("Blend error: %v", err)
	}
	for i, c := range colors {
		for _, v := range []float64{c.R, c.G, c.B} {
			if v < 0 || v > 1 {
				t.Fatalf("colors[%d] = %v has channel outside [0,1]", i, c)
			}
		}
	}
}

func TestBlendSingleAnchor(t *testing.T) {
	colors, err := Blend([]string{"teal"}, 5)
	if err != nil {
		t.Fatalf("Blend error: %v", err)
	}
	for i := 1; i < len(colors); i++ {
		if colors[i] != colors[0] {
			t.Errorf("colors[%d] = %v, want %v", i, colors[i], colors[0])
		}
	}
}

func TestLutIndex(t *testing.T) {
	tests := []struct {
		t    float64
		want int
	}{
		{0, 0},
		{0.5, 128},
		{0.999, 255},
		{1, 255},
		{-0.1, 0},
	}
	for _, tt := range tests {
		if got := lutIndex(tt.t); got != tt.want {
			t.Errorf("lutIndex(%v) = %d, want %d", tt.t, got, tt.want)
		}
	}
}
