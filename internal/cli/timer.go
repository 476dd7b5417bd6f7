package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
	"github.com/YuriiYurchuk/Focus-Flow/internal/tui"
)

// launchTimerFunc is a function variable for launching the timer TUI,
// allowing it to be mocked in tests.
var launchTimerFunc = launchTimer

// newTimerCommand creates the timer command for the interactive timer view.
func newTimerCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "timer <id>",
		Short: "Open the live timer view for a task",
		Long: `Open an interactive timer bound to one task.

The view mirrors the stored task live: elapsed time ticks while a
session is open, and changes made by other clients appear as they
land. Space toggles start/pause, c completes the task, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return launchTimerFunc(c, args[0])
		},
	}
}

// launchTimer starts the bubbletea program for the timer view.
func launchTimer(c *app.Container, taskID string) error {
	model, err := tui.NewTimerModel(c, c.Owner(), taskID)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
