package main

import (
	"context"
	"fmt"
	"net"

	"github.com/desertthunder/playdeck/internal/server"
	"github.com/desertthunder/playdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the upload server until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.Config().Server
	logger := shared.WithLogger(r.logger, "component", "server")

	srv := server.New(server.Options{Config: cfg, Logger: logger})
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	url := "http://" + ln.Addr().String()
	logger.Info("server listening", "url", url, "uploads", cfg.UploadsDir, "static", cfg.StaticDir)

	if cmd.Bool("open") {
		if err := r.openBrowser(url); err != nil {
			logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}

	if err := server.Run(ctx, srv, ln); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
