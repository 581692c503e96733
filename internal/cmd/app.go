// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mtreilly/math-error/internal/config"
	"github.com/mtreilly/math-error/internal/kv"
	"github.com/mtreilly/math-error/internal/library"
	"github.com/mtreilly/math-error/internal/logging"
)

// app carries what every command needs. It is filled in by the root
// command's pre-run hook, after flags are parsed.
type app struct {
	configPath string
	backend    string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
	store  kv.Store
	lib    *library.Library
}

func (a *app) open(ctx context.Context) error {
	if a.lib != nil {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Storage.Backend = a.backend
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		_ = logger.Sync()
		return err
	}

	lib := library.New(store, library.WithLogger(logger))
	lib.Initialize(ctx)

	a.cfg, a.logger, a.store, a.lib = cfg, logger, store, lib
	return nil
}

func (a *app) close() error {
	if a.lib == nil {
		return nil
	}
	err := a.lib.Close()
	_ = a.logger.Sync()
	a.lib = nil
	return err
}

// openStore opens the configured storage medium. When the default SQLite
// database cannot be opened (missing directory permissions, corruption) the
// tool falls back to an in-memory store so it stays usable without
// persistence. Other backends are chosen explicitly and fail loudly.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (kv.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := kv.OpenSQLiteStore(cfg.Path)
		if err != nil {
			logger.Warn("cannot open SQLite database, falling back to in-memory store (no persistence)",
				zap.String("path", cfg.Path),
				zap.Error(err),
			)
			return kv.NewMemoryStore(), nil
		}
		logger.Debug("storage opened", zap.String("backend", cfg.Backend), zap.String("path", cfg.Path))
		return s, nil

	case config.BackendFile:
		s, err := kv.OpenFileStore(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		logger.Debug("storage opened", zap.String("backend", cfg.Backend), zap.String("dir", cfg.Dir))
		return s, nil

	case config.BackendRedis:
		s, err := kv.OpenRedisStore(ctx, kv.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		logger.Debug("storage opened", zap.String("backend", cfg.Backend), zap.String("addr", cfg.Redis.Addr))
		return s, nil

	case config.BackendMemory:
		return kv.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
