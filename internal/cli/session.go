package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
	"github.com/YuriiYurchuk/Focus-Flow/internal/usecase"
)

// newStartCommand creates the start command.
func newStartCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start working on a task",
		Long: `Open a work session on a task.

Only one task can be active at a time; starting while another task is
in progress fails. Starting a task that already has an open session
fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.StartSessionUseCase().Execute(cmd.Context(), usecase.StartSessionInput{
				OwnerID: c.Owner(),
				TaskID:  args[0],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Started %s (%s) at %s\n",
				out.Task.ID, out.Task.Title, out.StartedAt.Local().Format("15:04:05"))
			return nil
		},
	}
}

// newPauseCommand creates the pause command.
func newPauseCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "pause <id>",
		Short: "Pause the running task",
		Long: `Close the open work session on a task.

The session's span is folded into the task's tracked time. Pausing a
task with no open session fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.PauseSessionUseCase().Execute(cmd.Context(), usecase.PauseSessionInput{
				OwnerID: c.Owner(),
				TaskID:  args[0],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Paused %s, tracked %s\n",
				out.Task.ID, formatDuration(out.Task.Duration))
			return nil
		},
	}
}

// newCompleteCommand creates the complete command.
func newCompleteCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete a task",
		Long: `Mark a task completed.

An open work session is closed first. Completion updates the owner's
stats (completed count, streak, early/late bookkeeping) and grants any
newly earned achievements.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner := c.Owner()

			out, err := c.CompleteTaskUseCase().Execute(ctx, usecase.CompleteTaskInput{
				OwnerID: owner,
				TaskID:  args[0],
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Completed %s, tracked %s\n",
				out.Task.ID, formatDuration(out.Task.Duration))

			if _, err := c.RecordCompletionUseCase().Execute(ctx, usecase.RecordCompletionInput{
				OwnerID: owner,
				Task:    out.Task,
			}); err != nil {
				return err
			}

			granted, err := c.GrantAchievementsUseCase().Execute(ctx, usecase.GrantAchievementsInput{
				OwnerID: owner,
			})
			if err != nil {
				return err
			}
			for _, a := range granted.Granted {
				_, _ = fmt.Fprintf(w, "Achievement unlocked: %s %s\n", a.Icon, a.Title)
			}
			return nil
		},
	}
}

// newReconcileCommand creates the reconcile command.
func newReconcileCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Repair conflicting active tasks",
		Long: `Pause all but one in-progress task.

Two clients racing through start can leave more than one task active.
This pass keeps the most recently updated one and pauses the rest. It
is safe to run at any time; with zero or one active task it does
nothing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ReconcileActiveUseCase().Execute(cmd.Context(), usecase.ReconcileActiveInput{
				OwnerID: c.Owner(),
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.PausedIDs) == 0 {
				_, _ = fmt.Fprintln(w, "Nothing to reconcile")
				return nil
			}
			_, _ = fmt.Fprintf(w, "Kept %s active, paused %s\n",
				out.KeptID, strings.Join(out.PausedIDs, ", "))
			return nil
		},
	}
}
