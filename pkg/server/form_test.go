package server

import (
	"net/url"
	"testing"

	"github.com/matzehuels/voronoi/pkg/errors"
	"github.com/matzehuels/voronoi/pkg/palette"
)

func TestParseForm(t *testing.T) {
	form := validForm()
	form.Set("chosen_filename", "  diagram ")
	form.Set("seed", "77")

	opts, err := ParseForm(form)
	if err != nil {
		t.Fatalf("ParseForm error: %v", err)
	}
	if opts.Width != 20 || opts.Height != 10 || opts.NumCells != 5 {
		t.Errorf("dimensions = %dx%d, %d cells", opts.Width, opts.Height, opts.NumCells)
	}
	if opts.Colors != [3]string{"red", "green", "blue"} {
		t.Errorf("Colors = %q", opts.Colors)
	}
	if opts.Mode != palette.ModeFixed || opts.BlendMultiplier != 0 {
		t.Errorf("mode = %q multiplier = %d, want fixed", opts.Mode, opts.BlendMultiplier)
	}
	if opts.Filename != "diagram" || opts.Seed != 77 {
		t.Errorf("filename = %q seed = %d", opts.Filename, opts.Seed)
	}
}

func TestParseFormBlendMode(t *testing.T) {
	form := validForm()
	form.Set("blend_multiplier", " 300 ")
	opts, err := ParseForm(form)
	if err != nil {
		t.Fatalf("ParseForm error: %v", err)
	}
	if opts.Mode != palette.ModeBlend || opts.BlendMultiplier != 300 {
		t.Errorf("mode = %q multiplier = %d", opts.Mode, opts.BlendMultiplier)
	}
}

func TestParseFormRejects(t *testing.T) {
	tests := []struct {
		field string
		value string
	}{
		{"width", ""},
		{"width", "12px"},
		{"height", "-5"},
		{"num_cells", "x"},
		{"num_cells", "-2"},
		{"blend_multiplier", "-1"},
		{"seed", "abc"},
		{"colorList1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			form := validForm()
			form.Set(tt.field, tt.value)
			_, err := ParseForm(form)
			if !errors.IsValidation(err) {
				t.Errorf("ParseForm error = %v, want validation error", err)
			}
		})
	}
}

func TestParseFormZeroCellsAllowed(t *testing.T) {
	form := url.Values{
		"colorList1": {"k"}, "colorList2": {"w"}, "colorList3": {"#777"},
		"width": {"3"}, "height": {"3"}, "num_cells": {"0"},
	}
	opts, err := ParseForm(form)
	if err != nil {
		t.Fatalf("ParseForm error: %v", err)
	}
	if opts.NumCells != 0 {
		t.Errorf("NumCells = %d", opts.NumCells)
	}
}
