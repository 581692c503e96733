// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package kv provides the storage medium the library persists into: a flat
// string-keyed store of opaque byte values.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("kv: key not found")

// Store is a synchronous key-value store. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// validateKey rejects keys that cannot be stored portably by every backend.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("kv: empty key")
	}
	if strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("kv: invalid key %q", key)
	}
	return nil
}
