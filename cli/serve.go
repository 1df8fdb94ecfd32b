package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"priority-notes/config"
	"priority-notes/config/setup"

	"github.com/spf13/cobra"
)

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()

			port, _ := cmd.Flags().GetString("port")
			if port == "" {
				port = config.AppConfig.Port
			}

			application, closeApp, err := openApp(cmd, config.AppConfig.WatchDB)
			if err != nil {
				return err
			}
			defer closeApp()

			fiberApp := setup.NewFiberApp(logger)
			setup.ApplyMiddleware(fiberApp, logger)
			setup.RegisterRoutes(fiberApp, application)

			logger.Info("starting server", "port", port, "env", config.AppConfig.Env)

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- fiberApp.Listen(":" + port)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-serveErr:
				return fmt.Errorf("server failed: %w", err)
			case <-quit:
			}

			logger.Info("shutting down server gracefully")

			// Ends open note streams so the server can drain
			application.ViewModel.Clear()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := fiberApp.ShutdownWithContext(ctx); err != nil {
				logger.Error("server forced to shutdown", "error", err)
			}

			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().String("port", "", "Port to listen on (default PORT or 3000)")

	return cmd
}
