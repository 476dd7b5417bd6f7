package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
	"github.com/YuriiYurchuk/Focus-Flow/internal/httpapi"
)

// newServeCommand creates the serve command.
func newServeCommand(c *app.Container) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve the task API over HTTP.

Requests authenticate with a bearer token (HS256 JWT, owner id in the
subject claim); [http].jwt_secret must be configured. Task changes
stream over /v1/tasks/{id}/events as server-sent events.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.Config.HTTP.JWTSecret == "" {
				return errors.New("http.jwt_secret is not configured")
			}
			addr := listen
			if addr == "" {
				addr = c.Config.HTTP.Listen
			}

			handler := httpapi.NewHandler(c, httpapi.Config{
				JWTSecret:      []byte(c.Config.HTTP.JWTSecret),
				AllowedOrigins: c.Config.HTTP.AllowedOrigins,
			})
			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides config)")

	return cmd
}
