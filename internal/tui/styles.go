package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// Colors defines the color palette for the timer view.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color

	NotStarted lipgloss.Color
	InProgress lipgloss.Color
	Paused     lipgloss.Color
	Completed  lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow

	NotStarted: lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Paused:     lipgloss.Color("#A29BFE"), // Lavender
	Completed:  lipgloss.Color("#00B894"), // Green
}

// Styles contains all the lipgloss styles for the timer view.
type Styles struct {
	App    lipgloss.Style
	Header lipgloss.Style
	Title  lipgloss.Style

	Elapsed        lipgloss.Style
	ElapsedRunning lipgloss.Style

	StatusNotStarted lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusPaused     lipgloss.Style
	StatusCompleted  lipgloss.Style

	SyncOK      lipgloss.Style
	SyncWarning lipgloss.Style
	SyncMissing lipgloss.Style

	Loading  lipgloss.Style
	ErrorMsg lipgloss.Style
	Grants   lipgloss.Style
	Footer   lipgloss.Style
}

// DefaultStyles returns the default styles for the timer view.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Bold(true),

		Elapsed: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		ElapsedRunning: lipgloss.NewStyle().
			Foreground(Colors.Success).
			Bold(true),

		StatusNotStarted: lipgloss.NewStyle().
			Foreground(Colors.NotStarted),

		StatusInProgress: lipgloss.NewStyle().
			Foreground(Colors.InProgress).
			Bold(true),

		StatusPaused: lipgloss.NewStyle().
			Foreground(Colors.Paused),

		StatusCompleted: lipgloss.NewStyle().
			Foreground(Colors.Completed),

		SyncOK: lipgloss.NewStyle().
			Foreground(Colors.Success),

		SyncWarning: lipgloss.NewStyle().
			Foreground(Colors.Warning),

		SyncMissing: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		Loading: lipgloss.NewStyle().
			Foreground(Colors.Warning).
			Italic(true),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		Grants: lipgloss.NewStyle().
			Foreground(Colors.Success),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			MarginTop(1),
	}
}

// StatusStyle returns the style for a given task status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusNotStarted:
		return s.StatusNotStarted
	case domain.StatusInProgress:
		return s.StatusInProgress
	case domain.StatusPaused:
		return s.StatusPaused
	case domain.StatusCompleted:
		return s.StatusCompleted
	default:
		return s.StatusNotStarted
	}
}

// StatusIcon returns an icon for a given task status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusNotStarted:
		return "○"
	case domain.StatusInProgress:
		return "●"
	case domain.StatusPaused:
		return "◉"
	case domain.StatusCompleted:
		return "✓"
	default:
		return "?"
	}
}
