// Package cli provides the command-line interface for focusflow.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
)

// Command group IDs.
const (
	groupSetup   = "setup"
	groupTask    = "task"
	groupSession = "session"
)

// NewRootCommand creates the root command for focusflow.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "focusflow",
		Short: "Task timer and focus tracking CLI",
		Long: `focusflow tracks tasks and the time spent on them.

A task accumulates work sessions: 'focusflow start' opens a session,
'focusflow pause' closes it, and at most one task is active at a time.
'focusflow timer' opens a live timer view for a task.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupSession, Title: "Time Tracking:"},
	)

	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	serveCmd := newServeCommand(c)
	serveCmd.GroupID = groupSetup

	tokenCmd := newTokenCommand(c)
	tokenCmd.GroupID = groupSetup

	newCmd := newNewCommand(c)
	newCmd.GroupID = groupTask

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	editCmd := newEditCommand(c)
	editCmd.GroupID = groupTask

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTask

	startCmd := newStartCommand(c)
	startCmd.GroupID = groupSession

	pauseCmd := newPauseCommand(c)
	pauseCmd.GroupID = groupSession

	completeCmd := newCompleteCommand(c)
	completeCmd.GroupID = groupSession

	reconcileCmd := newReconcileCommand(c)
	reconcileCmd.GroupID = groupSession

	timerCmd := newTimerCommand(c)
	timerCmd.GroupID = groupSession

	achievementsCmd := newAchievementsCommand(c)
	achievementsCmd.GroupID = groupTask

	activityCmd := newActivityCommand(c)
	activityCmd.GroupID = groupTask

	root.AddCommand(
		initCmd,
		serveCmd,
		tokenCmd,
		newCmd,
		listCmd,
		showCmd,
		editCmd,
		rmCmd,
		startCmd,
		pauseCmd,
		completeCmd,
		reconcileCmd,
		timerCmd,
		achievementsCmd,
		activityCmd,
	)

	return root
}
