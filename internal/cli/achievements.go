package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
	"github.com/YuriiYurchuk/Focus-Flow/internal/usecase"
)

// newAchievementsCommand creates the achievements command.
func newAchievementsCommand(c *app.Container) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Show earned achievements",
		Long: `Display the achievements you have earned.

With --all, the full catalog is shown including locked entries.
Hidden achievements only appear once earned.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			owner := c.Owner()

			// Grant first so the listing reflects the current stats.
			if _, err := c.GrantAchievementsUseCase().Execute(ctx, usecase.GrantAchievementsInput{
				OwnerID: owner,
			}); err != nil {
				return err
			}

			grants, err := c.Users.Grants(ctx, owner)
			if err != nil {
				return err
			}
			earned := make(map[string]bool, len(grants))
			for _, g := range grants {
				earned[g.ID] = true
			}

			all, err := c.Catalog.List(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, a := range all {
				switch {
				case earned[a.ID]:
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", a.Icon, a.Title, a.Description)
				case showAll && !a.Hidden:
					_, _ = fmt.Fprintf(w, "🔒\t%s\t%s\n", a.Title, a.Description)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Include locked achievements")

	return cmd
}
