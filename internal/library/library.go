// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package library holds the resource catalog, the activity log and the
// display preferences, each persisted as a JSON value in a kv.Store.
package library

import (
	"context"

	"github.com/mtreilly/math-error/internal/kv"
)

// Library bundles the three stores over one storage medium.
type Library struct {
	Catalog     *Catalog
	Activity    *Activity
	Preferences *Preferences

	kv kv.Store
}

// New wires the stores to store. Call Initialize before use and Close when done.
func New(store kv.Store, opts ...Option) *Library {
	activity := NewActivity(store, opts...)
	return &Library{
		Catalog:     NewCatalog(store, activity, opts...),
		Activity:    activity,
		Preferences: NewPreferences(store, opts...),
		kv:          store,
	}
}

// Initialize loads persisted state into every store. It does not fail:
// unusable state is replaced by defaults.
func (l *Library) Initialize(ctx context.Context) {
	l.Activity.Initialize(ctx)
	l.Catalog.Initialize(ctx)
	l.Preferences.Initialize(ctx)
}

// Close releases the storage medium.
func (l *Library) Close() error {
	return l.kv.Close()
}
