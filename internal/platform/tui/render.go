package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/demoloop/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorPlayer:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	core.ColorPipe:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorPipeCap:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorProjectile:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorAim:          lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorTerrain:      lipgloss.NewStyle().Foreground(lipgloss.Color("94")),
	core.ColorTerrainDense: lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
	core.ColorHUD:          lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorDim:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
