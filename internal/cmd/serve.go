// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtreilly/math-error/internal/library"
	"github.com/mtreilly/math-error/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and JSON API",
		Long: `Serve the catalog over HTTP until interrupted.

Pages:  /  and  /subjects/<id>
API:    /api/subjects, /api/search?q=, /api/open/<subject>/<type>/<id>,
        /api/downloads, /api/search-history, /api/stats, /api/theme
Ops:    /healthz, /metrics

Examples:
  math-error serve
  math-error serve --port 9000 --bind 0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Server
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("bind") {
				cfg.Host = bind
			}

			if !a.logger.Core().Enabled(zap.DebugLevel) {
				gin.SetMode(gin.ReleaseMode)
			}
			a.lib.Preferences.OnChange(func(ap library.Appearance) {
				a.logger.Info("theme changed", zap.String("mode", string(ap.Mode)))
			})

			textPrinter(cmd).linef("Serving math-error on http://%s (Ctrl+C to stop)", cfg.Addr())
			return server.New(a.lib, a.logger).Run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to serve on")
	cmd.Flags().StringVarP(&bind, "bind", "b", "127.0.0.1", "Address to bind to")
	return cmd
}
