package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/guildtag/internal/web"
)

// serveCmd runs the web UI
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lookup web UI",
	Long: `Start the HTTP server. The data file is loaded in the background; pages
show a loading notice until it is ready and only the load failure message if
it cannot be read.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"data_source", cfg.Data.Source,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	catalog := newCatalog()
	server := web.NewServer(catalog, cfg)

	g, gctx := errgroup.WithContext(ctx)

	// Startup load; failures are reported by the pages, not by the process
	g.Go(func() error {
		loadCtx, cancel := context.WithTimeout(gctx, cfg.Data.LoadTimeout)
		defer cancel()
		catalog.Load(loadCtx)
		return nil
	})

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		slog.Info("server stopped")
		return nil
	})

	return g.Wait()
}
