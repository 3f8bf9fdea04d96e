package cli

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/voronoi/pkg/palette"
	"github.com/matzehuels/voronoi/pkg/pipeline"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// formatStats renders per-stage timings on one line, e.g.
// "palette 12µs · sites 40µs · raster 3ms · smooth 1ms · encode 2ms · fresh".
func formatStats(s pipeline.Stats, cached bool) string {
	var parts []string
	if !cached {
		stages := []struct {
			name string
			d    time.Duration
		}{
			{"palette", s.PaletteTime},
			{"sites", s.SitesTime},
			{"raster", s.RasterTime},
			{"smooth", s.SmoothTime},
			{"encode", s.EncodeTime},
		}
		for _, st := range stages {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%s %s", st.name, st.d.Round(time.Microsecond))))
		}
	}

	status, style := iconFresh, styleComputed
	if cached {
		status, style = iconCached, styleCached
	}
	parts = append(parts, style.Render(status))
	return strings.Join(parts, StyleDim.Render(" · "))
}

func printStats(s pipeline.Stats, cached bool) {
	fmt.Println("  " + formatStats(s, cached))
}

// swatch renders a two-column block in c.
func swatch(c color.RGBA) string {
	hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}

// formatCycle renders one color cycle as a strip of swatches. Long cycles
// are sampled down to at most width swatches.
func formatCycle(cycle []colorful.Color, width int) string {
	if len(cycle) == 0 || width <= 0 {
		return ""
	}
	n := min(len(cycle), width)
	var b strings.Builder
	for i := 0; i < n; i++ {
		idx := i * len(cycle) / n
		b.WriteString(swatch(palette.ToRGBA(cycle[idx])))
	}
	return b.String()
}

func printCycles(cycles palette.Cycles) {
	for i, c := range cycles {
		fmt.Printf("  %s %s %s\n", StyleDim.Render(fmt.Sprintf("cycle %d", i+1)), formatCycle(c, 32), StyleDim.Render(fmt.Sprintf("(%d)", len(c))))
	}
}
