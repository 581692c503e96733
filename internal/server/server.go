// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package server exposes the library over HTTP: a JSON API mirroring every
// page action, two read-only HTML pages, health and metrics endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mtreilly/math-error/internal/config"
	"github.com/mtreilly/math-error/internal/library"
)

// Server routes HTTP requests to the library stores.
type Server struct {
	engine   *gin.Engine
	catalog  library.CatalogStore
	activity library.ActivityStore
	prefs    library.PreferenceStore
	logger   *zap.Logger
}

// New builds the router. The library must already be initialized.
func New(lib *library.Library, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := gin.New()

	s := &Server{
		engine:   engine,
		catalog:  lib.Catalog,
		activity: lib.Activity,
		prefs:    lib.Preferences,
		logger:   logger.Named("http"),
	}
	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerMiddleware() {
	s.engine.Use(recoveryMiddleware(s.logger))
	s.engine.Use(corsMiddleware())
	s.engine.Use(loggingMiddleware(s.logger))
	s.engine.Use(metricsMiddleware())
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.indexPage)
	s.engine.GET("/subjects/:id", s.subjectPage)

	api := s.engine.Group("/api")
	{
		api.GET("/subjects", s.listSubjects)
		api.GET("/subjects/:id", s.getSubject)
		api.POST("/subjects/:id/resources/:type", s.addResource)
		api.DELETE("/subjects/:id/resources/:type/:resourceId", s.removeResource)

		api.GET("/search", s.search)
		api.GET("/open/:id/:type/:resourceId", s.openResource)

		api.GET("/downloads", s.listDownloads)
		api.GET("/search-history", s.searchHistory)
		api.GET("/stats", s.stats)

		api.GET("/theme", s.getTheme)
		api.PUT("/theme", s.setTheme)
		api.PUT("/theme/colors", s.setColors)
	}

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Run serves on cfg.Addr() until ctx is cancelled, then shuts down within
// cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
