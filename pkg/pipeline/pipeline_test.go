package pipeline

import (
	"image/color"
	"testing"

	"github.com/matzehuels/voronoi/pkg/errors"
	"github.com/matzehuels/voronoi/pkg/palette"
)

func baseOptions() Options {
	return Options{
		Width:    12,
		Height:   9,
		NumCells: 4,
		Colors:   [3]string{"red", "green", "blue"},
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Options)
		wantCode errors.Code
		wantMode palette.Mode
	}{
		{"fixed by default", func(o *Options) {}, "", palette.ModeFixed},
		{"blend derived from multiplier", func(o *Options) { o.BlendMultiplier = 10 }, "", palette.ModeBlend},
		{"explicit fixed", func(o *Options) { o.Mode = palette.ModeFixed }, "", palette.ModeFixed},
		{"zero cells", func(o *Options) { o.NumCells = 0 }, "", palette.ModeFixed},
		{"filename", func(o *Options) { o.Filename = "my-diagram" }, "", palette.ModeFixed},
		{"zero width", func(o *Options) { o.Width = 0 }, errors.ErrCodeInvalidDimensions, ""},
		{"negative height", func(o *Options) { o.Height = -3 }, errors.ErrCodeInvalidDimensions, ""},
		{"negative cells", func(o *Options) { o.NumCells = -1 }, errors.ErrCodeInvalidInput, ""},
		{"blank color", func(o *Options) { o.Colors[1] = "  " }, errors.ErrCodeInvalidInput, ""},
		{"fixed with multiplier", func(o *Options) { o.Mode = palette.ModeFixed; o.BlendMultiplier = 4 }, errors.ErrCodeInvalidInput, ""},
		{"blend without multiplier", func(o *Options) { o.Mode = palette.ModeBlend }, errors.ErrCodeInvalidInput, ""},
		{"negative multiplier", func(o *Options) { o.BlendMultiplier = -2 }, errors.ErrCodeInvalidInput, ""},
		{"unknown mode", func(o *Options) { o.Mode = "rainbow" }, errors.ErrCodeInvalidPaletteMode, ""},
		{"traversal filename", func(o *Options) { o.Filename = "../etc/passwd" }, errors.ErrCodeInvalidFilename, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := baseOptions()
			tt.modify(&o)
			err := o.ValidateAndSetDefaults()
			if tt.wantCode != "" {
				if got := errors.GetCode(err); got != tt.wantCode {
					t.Fatalf("error code = %q, want %q (err=%v)", got, tt.wantCode, err)
				}
				if !errors.IsValidation(err) {
					t.Errorf("error %v should be a validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if o.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", o.Mode, tt.wantMode)
			}
			if o.Logger == nil {
				t.Error("Logger should default to a discard logger")
			}
			if o.Fallback != (color.RGBA{A: 255}) {
				t.Errorf("Fallback = %v, want opaque black", o.Fallback)
			}
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	o := baseOptions()
	o.BlendMultiplier = 7
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first call: %v", err)
	}
	first := o
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if o.Mode != first.Mode || o.BlendCount() != first.BlendCount() {
		t.Error("second call changed the options")
	}
}

func TestColorsAreTrimmed(t *testing.T) {
	o := baseOptions()
	o.Colors = [3]string{" red", "green ", "\tblue"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Colors != [3]string{"red", "green", "blue"} {
		t.Errorf("Colors = %q", o.Colors)
	}
}

func TestBlendCount(t *testing.T) {
	tests := []struct {
		multiplier int
		want       int
	}{
		{0, 3},
		{1, 1},
		{40, 40},
		{256, 256},
		{500, 256},
	}
	for _, tt := range tests {
		o := baseOptions()
		o.BlendMultiplier = tt.multiplier
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatalf("multiplier %d: %v", tt.multiplier, err)
		}
		if got := o.BlendCount(); got != tt.want {
			t.Errorf("BlendCount(multiplier=%d) = %d, want %d", tt.multiplier, got, tt.want)
		}
	}
}

func TestLimitsCheck(t *testing.T) {
	l := Limits{MaxWidth: 100, MaxHeight: 50, MaxCells: 10}
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"within", Options{Width: 100, Height: 50, NumCells: 10}, false},
		{"too wide", Options{Width: 101, Height: 1}, true},
		{"too tall", Options{Width: 1, Height: 51}, true},
		{"too many cells", Options{Width: 1, Height: 1, NumCells: 11}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Check(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("Check error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsValidation(err) {
				t.Errorf("limit error %v should be a validation error", err)
			}
		})
	}

	if err := (Limits{}).Check(Options{Width: 1 << 20, Height: 1 << 20, NumCells: 1 << 20}); err != nil {
		t.Errorf("zero limits should allow anything, got %v", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	a := baseOptions()
	a.Seed = 1
	b := baseOptions()
	b.Seed = 2
	if err := a.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if err := b.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	ka, kb := a.ArtifactKeyOpts(), b.ArtifactKeyOpts()
	if ka == kb {
		t.Error("different seeds should give different key options")
	}
	if ka.Fallback != "#000000" || ka.BlendCount != 3 || ka.Mode != "fixed" {
		t.Errorf("unexpected key options: %+v", ka)
	}
}

func TestNewSeed(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		s := NewSeed()
		if s == 0 {
			t.Fatal("NewSeed returned zero")
		}
		seen[s] = true
	}
	if len(seen) < 99 {
		t.Errorf("NewSeed produced too many duplicates: %d unique of 100", len(seen))
	}
}
