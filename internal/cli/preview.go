package cli

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/voronoi/pkg/pipeline"
)

const (
	previewCols     = 80
	previewRows     = 24
	previewChrome   = 2 // status and help lines
	previewMaxCells = 2000
	halfBlock       = "▀"
)

// blendSteps are the cycle lengths the b key steps through. Zero is fixed mode.
var blendSteps = []int{0, 2, 8, 32, 256}

type previewOpts struct {
	cells  int
	colors string
	blend  int
	seed   uint64
}

// previewCommand creates the preview command, an interactive terminal view.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{
		cells:  pipeline.DefaultNumCells,
		colors: strings.Join(pipeline.DefaultColors[:], ","),
	}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview diagrams in the terminal",
		Long: `Preview diagrams in the terminal.

The diagram fills the window, two pixels per character cell. Press r for a
new seed, + and - to change the cell count, b to step through blend
multipliers, and q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			m := newPreviewModel(colors, opts.cells, opts.blend, opts.seed, fallback)
			if m.err != nil {
				return m.err
			}
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(previewModel); ok && fm.seed != 0 {
				printKeyValue("last seed", fmt.Sprintf("%d", fm.seed))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.cells, "cells", "n", opts.cells, "number of cells")
	cmd.Flags().StringVar(&opts.colors, "colors", opts.colors, "three comma-separated base colors")
	cmd.Flags().IntVar(&opts.blend, "blend", 0, "entries per blended cycle (0 keeps the three base colors)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 draws a new one)")

	return cmd
}

// previewModel is the bubbletea model behind the preview command. Each
// terminal row shows two pixel rows using the upper half block.
type previewModel struct {
	colors   [3]string
	cells    int
	blend    int
	seed     uint64
	fallback color.RGBA

	cols, rows int
	img        *image.NRGBA
	err        error
}

func newPreviewModel(colors [3]string, cells, blend int, seed uint64, fallback color.RGBA) previewModel {
	if seed == 0 {
		seed = pipeline.NewSeed()
	}
	m := previewModel{
		colors:   colors,
		cells:    cells,
		blend:    blend,
		seed:     seed,
		fallback: fallback,
		cols:     previewCols,
		rows:     previewRows,
	}
	m.render()
	return m
}

// canvas is the pixel size of the diagram for the current window.
func (m previewModel) canvas() (int, int) {
	return max(m.cols, 1), max(m.rows-previewChrome, 1) * 2
}

func (m *previewModel) render() {
	w, h := m.canvas()
	img, _, err := pipeline.Render(pipeline.Options{
		Width:           w,
		Height:          h,
		NumCells:        m.cells,
		Colors:          m.colors,
		BlendMultiplier: m.blend,
		Seed:            m.seed,
		Fallback:        m.fallback,
	})
	m.img, m.err = img, err
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.seed = pipeline.NewSeed()
		case "+", "=":
			if m.cells >= previewMaxCells {
				return m, nil
			}
			m.cells++
		case "-":
			if m.cells == 0 {
				return m, nil
			}
			m.cells--
		case "b":
			m.blend = nextBlend(m.blend)
		default:
			return m, nil
		}
		m.render()
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.render()
	}
	return m, nil
}

// nextBlend steps to the next multiplier in blendSteps, wrapping to zero.
func nextBlend(cur int) int {
	for _, s := range blendSteps {
		if s > cur {
			return s
		}
	}
	return 0
}

func (m previewModel) View() string {
	var b strings.Builder

	mode := "fixed"
	if m.blend > 0 {
		mode = fmt.Sprintf("blend %d", min(m.blend, 256))
	}
	b.WriteString(StyleTitle.Render("voronoi"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  seed %d · %d cells · %s", m.seed, m.cells, mode)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render(m.err.Error()))
		b.WriteString("\n")
	} else if m.img != nil {
		b.WriteString(halfBlocks(m.img))
	}

	b.WriteString(StyleDim.Render("r reseed  +/- cells  b blend  q quit"))
	return b.String()
}

// halfBlocks draws img with one character per column and two pixel rows per
// line. An odd last row is drawn over the terminal background.
func halfBlocks(img *image.NRGBA) string {
	bounds := img.Bounds()
	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(img.NRGBAAt(x, y)))
			if y+1 < bounds.Max.Y {
				style = style.Background(hexColor(img.NRGBAAt(x, y+1)))
			}
			b.WriteString(style.Render(halfBlock))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func hexColor(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
