// Package ui provides terminal styling for strand CLI output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/strandtools/strand/internal/types"
)

// Ayu theme color palette
var (
	ColorGood = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
)

// Shared styles
var (
	GoodStyle   = lipgloss.NewStyle().Foreground(ColorGood)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)

	// HeaderStyle for section headers
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
)

// Tree characters for hierarchical display
const (
	TreeBranch = "├─ "
	TreeLast   = "└─ "
	TreeIndent = "   "
)

var statusStyles = map[types.Status]lipgloss.Style{
	types.StatusActive:    GoodStyle,
	types.StatusPaused:    WarnStyle,
	types.StatusStopped:   WarnStyle,
	types.StatusCompleted: AccentStyle,
	types.StatusArchived:  MutedStyle,
}

// StatusBadge renders a thread status with its semantic color.
func StatusBadge(s types.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		return string(s)
	}
	return Render(style, string(s))
}

// TemperatureBadge renders a temperature; hotter temperatures get warmer
// colors, frozen ones go muted.
func TemperatureBadge(t types.Temperature) string {
	switch {
	case t.Rank() >= types.TempWarm.Rank():
		return Render(FailStyle, string(t))
	case t.Rank() == types.TempTepid.Rank():
		return Render(WarnStyle, string(t))
	default:
		return Render(MutedStyle, string(t))
	}
}

// ImportanceBadge renders importance as filled/empty stars.
func ImportanceBadge(importance int) string {
	if importance < 1 || importance > 5 {
		return ""
	}
	return Render(AccentStyle, strings.Repeat("★", importance)+strings.Repeat("☆", 5-importance))
}

// Header renders a section header in uppercase with accent color.
func Header(s string) string {
	return Render(HeaderStyle, strings.ToUpper(s))
}

// Muted renders de-emphasized text.
func Muted(s string) string {
	return Render(MutedStyle, s)
}

// Render applies a style unless color output is disabled.
func Render(style lipgloss.Style, s string) string {
	if !ShouldUseColor() {
		return s
	}
	return style.Render(s)
}
