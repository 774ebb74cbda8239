package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"techtreck/internal/app"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.HTTP.Addr
			}

			application, err := app.New(ctx, c.log, c.cfg)
			if err != nil {
				c.log.Error("failed to initialize app", slog.String("error", err.Error()))
				return err
			}
			defer application.Close()

			srv := application.HTTPServer(addr)
			errCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()
			c.log.Info("http api listening", slog.String("addr", addr), slog.String("store", c.cfg.Store.Driver))

			select {
			case err := <-errCh:
				if err != nil {
					c.log.Error("http server failed", slog.String("error", err.Error()))
					return err
				}
				return nil
			case <-ctx.Done():
			}

			c.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				c.log.Error("http server shutdown", slog.String("error", err.Error()))
				return err
			}
			return <-errCh
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: TECHTRECK_HTTP_ADDR)")
	return cmd
}
