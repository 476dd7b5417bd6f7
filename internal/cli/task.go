package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
	"github.com/YuriiYurchuk/Focus-Flow/internal/usecase"
)

const deadlineLayout = "2006-01-02 15:04"

// parseDeadline accepts "2006-01-02" or "2006-01-02 15:04" in local time.
func parseDeadline(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(deadlineLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid deadline %q (want YYYY-MM-DD or YYYY-MM-DD HH:MM)", s)
	}
	return t, nil
}

// formatDuration renders a duration as h:mm:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		Deadline    string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task.

The task is created with status 'not-started' and no recorded
sessions. Use 'focusflow start <id>' to begin working on it.

Examples:
  # Create a task
  focusflow new --title "Write report"

  # Create a high-priority task with a deadline
  focusflow new --title "File taxes" --priority high --due "2026-04-15"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.CreateTaskInput{
				OwnerID:     c.Owner(),
				Title:       opts.Title,
				Description: opts.Description,
				Priority:    domain.Priority(opts.Priority),
			}
			if opts.Deadline != "" {
				due, err := parseDeadline(opts.Deadline)
				if err != nil {
					return err
				}
				input.Deadline = &due
			}

			out, err := c.CreateTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority: low, medium (default), high")
	cmd.Flags().StringVar(&opts.Deadline, "due", "", "Deadline (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status   string
		Priority string
		All      bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display a list of tasks.

By default, completed tasks are hidden. Use --all to show them.

Output format is tab-separated with columns:
  ID, STATUS, PRIORITY, TRACKED, DUE, TITLE

Examples:
  # List open tasks
  focusflow list

  # List everything including completed tasks
  focusflow list --all

  # List only paused tasks
  focusflow list --status paused`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListTasksInput{OwnerID: c.Owner()}
			if opts.Status != "" {
				st := domain.Status(opts.Status)
				if !st.IsValid() {
					return fmt.Errorf("unknown status: %q", opts.Status)
				}
				input.Status = &st
			}
			if opts.Priority != "" {
				p := domain.Priority(opts.Priority)
				if !p.IsValid() {
					return fmt.Errorf("unknown priority: %q", opts.Priority)
				}
				input.Priority = &p
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tTRACKED\tDUE\tTITLE")
			for _, task := range out.Tasks {
				if !opts.All && opts.Status == "" && task.Status.IsTerminal() {
					continue
				}
				due := "-"
				if task.Deadline != nil {
					due = task.Deadline.Local().Format(deadlineLayout)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					task.ID,
					task.Status.Display(),
					task.Priority,
					formatDuration(task.Duration),
					due,
					task.Title,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include completed tasks")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Filter by priority")

	return cmd
}

// newShowCommand creates the show command for displaying task details.
func newShowCommand(c *app.Container) *cobra.Command {
	var showSessions bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.GetTaskUseCase().Execute(cmd.Context(), usecase.GetTaskInput{
				OwnerID: c.Owner(),
				TaskID:  args[0],
			})
			if err != nil {
				return err
			}
			task := out.Task

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Task %s\n", task.ID)
			_, _ = fmt.Fprintf(w, "  Title:    %s\n", task.Title)
			if task.Description != "" {
				_, _ = fmt.Fprintf(w, "  Body:     %s\n", strings.ReplaceAll(task.Description, "\n", "\n            "))
			}
			_, _ = fmt.Fprintf(w, "  Status:   %s\n", task.Status.Display())
			_, _ = fmt.Fprintf(w, "  Priority: %s\n", task.Priority)
			_, _ = fmt.Fprintf(w, "  Tracked:  %s\n", formatDuration(task.Duration))
			if task.Deadline != nil {
				_, _ = fmt.Fprintf(w, "  Due:      %s\n", task.Deadline.Local().Format(deadlineLayout))
			}
			if task.TimeStart != nil {
				_, _ = fmt.Fprintf(w, "  Started:  %s\n", task.TimeStart.Local().Format(deadlineLayout))
			}
			if task.TimeEnd != nil {
				_, _ = fmt.Fprintf(w, "  Stopped:  %s\n", task.TimeEnd.Local().Format(deadlineLayout))
			}

			if showSessions && len(task.Sessions) > 0 {
				_, _ = fmt.Fprintln(w, "  Sessions:")
				for _, s := range task.Sessions {
					if s.Closed() {
						_, _ = fmt.Fprintf(w, "    %s - %s (%s)\n",
							s.Start.Local().Format(deadlineLayout),
							s.End.Local().Format("15:04"),
							formatDuration(s.End.Sub(s.Start)))
					} else {
						_, _ = fmt.Fprintf(w, "    %s - (running)\n", s.Start.Local().Format(deadlineLayout))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSessions, "sessions", false, "Show the recorded work sessions")

	return cmd
}

// newEditCommand creates the edit command for updating task metadata.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		Deadline    string
		ClearDue    bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task metadata",
		Long: `Edit a task's title, description, priority or deadline.

Status and tracked time are owned by the session commands (start,
pause, complete) and cannot be edited here.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.EditTaskInput{
				OwnerID:  c.Owner(),
				TaskID:   args[0],
				ClearDue: opts.ClearDue,
			}
			if cmd.Flags().Changed("title") {
				input.Title = &opts.Title
			}
			if cmd.Flags().Changed("body") {
				input.Description = &opts.Description
			}
			if cmd.Flags().Changed("priority") {
				p := domain.Priority(opts.Priority)
				input.Priority = &p
			}
			if opts.Deadline != "" {
				due, err := parseDeadline(opts.Deadline)
				if err != nil {
					return err
				}
				input.Deadline = &due
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "New priority: low, medium, high")
	cmd.Flags().StringVar(&opts.Deadline, "due", "", "New deadline (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	cmd.Flags().BoolVar(&opts.ClearDue, "clear-due", false, "Remove the deadline")

	return cmd
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{
				OwnerID: c.Owner(),
				TaskID:  args[0],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s (%s)\n", out.Task.ID, out.Task.Title)
			return nil
		},
	}
}
