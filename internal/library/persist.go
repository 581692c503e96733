// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mtreilly/math-error/internal/kv"
)

// Storage keys. They match the keys the browser build used so a snapshot can
// be copied between the two.
const (
	KeySubjects      = "math-error-subjects"
	KeyDownloads     = "math-error-downloads"
	KeySearchHistory = "math-error-search-history"
	KeyTheme         = "math-error-theme"
	KeyCustomColors  = "math-error-custom-colors"
)

// Option configures a store.
type Option func(*options)

type options struct {
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func defaultOptions() options {
	return options{
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  NewID,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithLogger sets the logger persistence problems are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator replaces NewID, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// persister is the single boundary between a store and the storage medium.
// Reads report why a value is unusable so the caller can fall back; writes
// are best effort and only reported.
type persister struct {
	kv     kv.Store
	logger *zap.Logger
}

// load decodes the JSON value at key into v. It returns kv.ErrNotFound when
// the key is absent and an ErrStorageUnavailable-wrapped error when the value
// cannot be read or parsed.
func (p persister) load(ctx context.Context, key string, v any) error {
	data, err := p.loadRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrStorageUnavailable, key, err)
	}
	return nil
}

func (p persister) loadRaw(ctx context.Context, key string) ([]byte, error) {
	data, err := p.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, key, err)
	}
	return data, nil
}

// fallback records that the value at key was replaced by defaults.
func (p persister) fallback(key string, err error) {
	if errors.Is(err, kv.ErrNotFound) {
		return
	}
	storageReadFallbacks.WithLabelValues(key).Inc()
	p.logger.Warn("persisted value unusable, using defaults",
		zap.String("key", key),
		zap.Error(err),
	)
}

// save writes v as JSON under key.
func (p persister) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return p.failed(key, fmt.Errorf("%w: encode %s: %v", ErrStorageUnavailable, key, err))
	}
	return p.saveRaw(ctx, key, data)
}

func (p persister) saveRaw(ctx context.Context, key string, data []byte) error {
	if err := p.kv.Set(ctx, key, data); err != nil {
		return p.failed(key, fmt.Errorf("%w: write %s: %v", ErrStorageUnavailable, key, err))
	}
	return nil
}

// failed logs a write failure. The in-memory change that triggered the write
// is kept; it just will not survive a restart.
func (p persister) failed(key string, err error) error {
	storageWriteFailures.WithLabelValues(key).Inc()
	p.logger.Warn("persist failed, change kept in memory only",
		zap.String("key", key),
		zap.Error(err),
	)
	return err
}
