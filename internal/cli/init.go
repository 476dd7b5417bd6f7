package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the task store",
		Long: `Initialize the configured task store.

For the file backend this creates the store file; for the postgres
backend it creates the schema. The memory backend needs no setup.

Running init on an already-initialized store is a no-op.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.StoreInitializer == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Store backend needs no initialization")
				return nil
			}
			if err := c.StoreInitializer.Initialize(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Store initialized")
			return nil
		},
	}
}
