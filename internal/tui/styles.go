package tui

import "github.com/charmbracelet/lipgloss"

// Colors adapt to light and dark terminal backgrounds.
var (
	accent = lipgloss.AdaptiveColor{Light: "#B4530F", Dark: "#F59E5B"}
	good   = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#6EE7A8"}
	warn   = lipgloss.AdaptiveColor{Light: "#A16207", Dark: "#FACC15"}
	bad    = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	subtle = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#4B5563"}
	fg     = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#E5E7EB"}
	faint  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	subtitleStyle = lipgloss.NewStyle().Italic(true).Foreground(faint)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(good).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(subtle).
			MarginTop(1)

	dimStyle      = lipgloss.NewStyle().Foreground(faint)
	fileNameStyle = lipgloss.NewStyle().Foreground(fg).Underline(true)
	successStyle  = lipgloss.NewStyle().Bold(true).Foreground(good)
	warningStyle  = lipgloss.NewStyle().Foreground(warn)
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(bad)
	countStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	spinnerStyle  = lipgloss.NewStyle().Foreground(accent)

	// Summary rows: fixed-width label, bold value.
	statLabelStyle = lipgloss.NewStyle().Width(14).Foreground(faint)
	statValueStyle = lipgloss.NewStyle().Bold(true).Foreground(fg)

	highlightBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(0, 2).
				MarginTop(1)

	helpStyle = lipgloss.NewStyle().Italic(true).Foreground(subtle).MarginTop(1)
)

const (
	iconFont     = "Aa"
	iconFolder   = "▸"
	iconArrow    = "→"
	iconSuccess  = "✓"
	iconSkipped  = "·"
	iconOverride = "!"
	iconError    = "✗"
)
