package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
	"github.com/YuriiYurchuk/Focus-Flow/internal/httpapi"
)

// newTokenCommand creates the token command for minting API tokens.
func newTokenCommand(c *app.Container) *cobra.Command {
	var (
		owner string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API bearer token",
		Long: `Mint a signed bearer token for the HTTP API.

The token's subject is the owner id; requests made with it only see
that owner's tasks. Requires [http].jwt_secret to be configured.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.Config.HTTP.JWTSecret == "" {
				return errors.New("http.jwt_secret is not configured")
			}
			if owner == "" {
				owner = c.Owner()
			}
			token, err := httpapi.GenerateToken([]byte(c.Config.HTTP.JWTSecret), owner, ttl)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner id the token is issued for (default: configured owner)")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return cmd
}
