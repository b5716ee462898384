package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/netmesh/internal/panel"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	statusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	statusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	statusRecording = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444")).
			Blink(true)

	graphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88"))

	keyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)
)

var noticeStyles = map[panel.Level]lipgloss.Style{
	panel.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")),
	panel.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")),
	panel.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00")),
	panel.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true),
}

// swatch renders a short colour sample followed by the hex code.
func swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██") + " " + hex
}

func separator(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#444466")).Render(strings.Repeat("─", width))
}
