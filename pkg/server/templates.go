package server

import (
	"embed"
	"html/template"

	"github.com/matzehuels/voronoi/pkg/palette"
	"github.com/matzehuels/voronoi/pkg/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

type formData struct {
	Colors          [3]string
	Width           int
	Height          int
	NumCells        int
	MaxBlendCount   int
	FixedBlendCount int
}

func defaultFormData() formData {
	return formData{
		Colors:          pipeline.DefaultColors,
		Width:           pipeline.DefaultWidth,
		Height:          pipeline.DefaultHeight,
		NumCells:        pipeline.DefaultNumCells,
		MaxBlendCount:   palette.MaxBlendCount,
		FixedBlendCount: palette.FixedBlendCount,
	}
}

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/form.html")
}
