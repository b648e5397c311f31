package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/mediafire-dl-go/api"
	"github.com/yourusername/mediafire-dl-go/api/handlers"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run history and event logs over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newSession()
		if err != nil {
			return err
		}
		defer rt.Close()

		config := rt.config
		if cmd.Flags().Changed("port") {
			config.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		repo, err := rt.openHistory()
		if err != nil {
			return err
		}
		defer repo.Close()

		router := api.SetupRouter(repo, rt.logAdapter, config.Logging.LogsDir)

		addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
		server := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			rt.log.Info("HTTP server listening",
				zap.String("addr", addr),
				zap.String("version", handlers.Version))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
			rt.log.Info("Received shutdown signal")
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			rt.log.Error("Server forced to shutdown", zap.Error(err))
			return err
		}

		rt.log.Info("Server exited")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides server.port)")
}
