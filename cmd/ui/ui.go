package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	IconFile     = "📄"
	IconCheck    = "✓"
	IconCross    = "✗"
	IconWarning  = "⚠️ "
	IconRobot    = "🤖"
	IconPackage  = "📦"
	IconConflict = "⚔"
)

var (
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF87"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	blue    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD7FF"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("#AF87FF"))
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7FF"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))

	header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color("#00D7FF"))
)

func Red(s string) string     { return red.Render(s) }
func Green(s string) string   { return green.Render(s) }
func Yellow(s string) string  { return yellow.Render(s) }
func Blue(s string) string    { return blue.Render(s) }
func Magenta(s string) string { return magenta.Render(s) }
func Cyan(s string) string    { return cyan.Render(s) }
func Dim(s string) string     { return dim.Render(s) }

// Header renders a highlighted title bar.
func Header(s string) string {
	return header.Render(s)
}

// Rule returns a horizontal separator of the given width.
func Rule(width int) string {
	return Dim(strings.Repeat("─", width))
}

// Percent formats a confidence in [0, 1] as a colored percentage.
func Percent(confidence float64) string {
	text := fmt.Sprintf("%d%%", int(confidence*100+0.5))
	switch {
	case confidence >= 0.9:
		return Green(text)
	case confidence >= 0.6:
		return Yellow(text)
	default:
		return Red(text)
	}
}
