// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package logging builds the process logger.
package logging

import (
	"strings"

	"go.uber.org/zap"

	"github.com/mtreilly/math-error/internal/config"
)

// New builds a zap logger from cfg. Format "json" uses the production
// encoder, anything else the human-readable development encoder. Output goes
// to stderr so command output on stdout stays machine-readable. An
// unparseable level falls back to info.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if strings.EqualFold(cfg.Format, "json") {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.DisableStacktrace = true
	}

	level, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	return zapConfig.Build()
}
