// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resourcesAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "math_error_resources_added_total",
			Help: "Resources added to the catalog",
		},
		[]string{"type"},
	)

	resourcesRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "math_error_resources_removed_total",
			Help: "Resources removed from the catalog",
		},
		[]string{"type"},
	)

	downloadsTracked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "math_error_downloads_tracked_total",
			Help: "Resource links opened",
		},
	)

	searchesRun = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "math_error_searches_total",
			Help: "Non-empty catalog searches",
		},
	)

	storageWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "math_error_storage_write_failures_total",
			Help: "Persistence writes that failed; the in-memory change was kept",
		},
		[]string{"key"},
	)

	storageReadFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "math_error_storage_read_fallbacks_total",
			Help: "Persisted values that could not be read or parsed and were replaced by defaults",
		},
		[]string{"key"},
	)
)
