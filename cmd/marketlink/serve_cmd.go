package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/marketlink/internal/telemetry"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the read-only diagnostics/metrics HTTP server",
		RunE:  runServe,
	}
	cmd.Flags().String("host", "127.0.0.1", "Bind host")
	cmd.Flags().Int("port", 9090, "Bind port")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.close()

	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")

	telemetry.NewRegistry()

	srv, err := telemetry.NewServer(telemetry.ServerConfig{Host: host, Port: port}, d.manager.Repository().Watchlist)
	if err != nil {
		return fmt.Errorf("starting telemetry server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-cmd.Context().Done():
		log.Info().Msg("shutting down telemetry server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("telemetry server failed: %w", err)
	}
}
