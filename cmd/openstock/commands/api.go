package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhongcheng0519/openstock/internal/api"
	"github.com/zhongcheng0519/openstock/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health                               - Health check
  GET  /health/db                            - Database health
  POST /api/v1/strategy/mf-filter            - Money-flow screen
  POST /api/v1/strategy/pct-filter           - Percent-change filter
  POST /api/v1/strategy/sync-stocks          - Refresh instrument roster
  POST /api/v1/strategy/sync-daily/{date}    - Force day re-sync

Example:
  go run ./cmd/openstock api
  go run ./cmd/openstock api --port 8000`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "override API server port")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	strategyHandler := handlers.NewStrategyHandler(app.service, app.log)
	healthHandler := handlers.NewHealthHandler(app.db, app.log)
	router := api.NewRouter(strategyHandler, healthHandler, app.log)

	server := api.New(app.cfg, app.log, router)

	// Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		app.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
