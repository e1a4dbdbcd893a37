package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/physiq/internal/mcptools"
	"github.com/abhisek/physiq/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API, WebSocket events, MCP and metrics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ServerAddr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		hub := server.NewHub(logger)
		go hub.Run(ctx)

		api := server.New(s.engine, hub, logger)
		defer api.Close()
		api.Mount("/mcp", mcptools.New(s.engine, version).HTTPHandler())

		httpServer := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      api,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errc := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.ServerAddr,
				"api", "/api", "websocket", "/ws", "mcp", "/mcp", "metrics", "/metrics")
			errc <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return s.engine.SaveProgressSync(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
}
