package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
	"github.com/YuriiYurchuk/Focus-Flow/internal/usecase"
)

// newActivityCommand creates the activity command.
func newActivityCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Limit  int
		Before string
	}

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity log",
		Long: `Display the activity log, newest first.

The log records task creation, completion, deletion and achievement
grants. Use --before with the cursor printed at the end of a page to
fetch older entries.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListActivityInput{
				OwnerID: c.Owner(),
				Limit:   opts.Limit,
			}
			if opts.Before != "" {
				before, err := time.Parse(time.RFC3339, opts.Before)
				if err != nil {
					return fmt.Errorf("invalid --before cursor: %w", err)
				}
				input.Before = before
			}

			out, err := c.ListActivityUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Entries) == 0 {
				_, _ = fmt.Fprintln(w, "No activity")
				return nil
			}
			for _, e := range out.Entries {
				_, _ = fmt.Fprintf(w, "%s  %-20s %s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04"),
					e.Type,
					e.Message,
				)
			}
			if !out.NextBefore.IsZero() {
				_, _ = fmt.Fprintf(w, "\nOlder entries: --before %s\n", out.NextBefore.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Page size (default 20)")
	cmd.Flags().StringVar(&opts.Before, "before", "", "Cursor for older entries (RFC3339)")

	return cmd
}
