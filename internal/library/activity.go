// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"sync"

	"github.com/mtreilly/math-error/internal/kv"
)

const (
	// MaxDownloads is how many download events are retained.
	MaxDownloads = 100
	// MaxSearches is how many search events are retained.
	MaxSearches = 50
	// recentDownloadsInStats is the length of Stats.RecentDownloads.
	recentDownloadsInStats = 10
)

// downloadDateLayout renders DownloadEvent.Date the way a US-locale browser
// renders toLocaleDateString.
const downloadDateLayout = "1/2/2006"

// Activity keeps the download and search logs. Both are newest first and
// capped; the oldest entries by insertion order are dropped.
type Activity struct {
	mu        sync.RWMutex
	p         persister
	opts      options
	downloads []DownloadEvent
	searches  []SearchEvent
}

// NewActivity creates an empty activity store backed by store.
func NewActivity(store kv.Store, opts ...Option) *Activity {
	o := buildOptions(opts)
	return &Activity{
		p:         persister{kv: store, logger: o.logger.Named("activity")},
		opts:      o,
		downloads: []DownloadEvent{},
		searches:  []SearchEvent{},
	}
}

// Initialize loads both logs. A missing or unreadable log starts empty.
func (a *Activity) Initialize(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var downloads []DownloadEvent
	if err := a.p.load(ctx, KeyDownloads, &downloads); err != nil {
		a.p.fallback(KeyDownloads, err)
		downloads = nil
	}
	if downloads == nil {
		downloads = []DownloadEvent{}
	}
	if len(downloads) > MaxDownloads {
		downloads = downloads[:MaxDownloads]
	}

	var searches []SearchEvent
	if err := a.p.load(ctx, KeySearchHistory, &searches); err != nil {
		a.p.fallback(KeySearchHistory, err)
		searches = nil
	}
	if searches == nil {
		searches = []SearchEvent{}
	}
	if len(searches) > MaxSearches {
		searches = searches[:MaxSearches]
	}

	a.downloads = downloads
	a.searches = searches
}

// TrackDownload records that a resource was opened. It never fails the
// caller: a persistence error is logged and the event stays in memory.
func (a *Activity) TrackDownload(ctx context.Context, subjectID string, resourceType ResourceType, resourceID, resourceName string) DownloadEvent {
	now := a.opts.now()
	ev := DownloadEvent{
		ID:           a.opts.newID(),
		SubjectID:    subjectID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Timestamp:    now.UTC(),
		Date:         now.Format(downloadDateLayout),
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.downloads = prependCapped(a.downloads, ev, MaxDownloads)
	_ = a.p.save(ctx, KeyDownloads, a.downloads)
	downloadsTracked.Inc()
	return ev
}

// RecordSearch appends a search event with the number of results it found.
func (a *Activity) RecordSearch(ctx context.Context, query string, resultCount int) SearchEvent {
	ev := SearchEvent{
		ID:        a.opts.newID(),
		Query:     query,
		Results:   resultCount,
		Timestamp: a.opts.now().UTC(),
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.searches = prependCapped(a.searches, ev, MaxSearches)
	_ = a.p.save(ctx, KeySearchHistory, a.searches)
	return ev
}

// Downloads returns every retained download event, newest first.
func (a *Activity) Downloads() []DownloadEvent {
	return a.RecentDownloads(MaxDownloads)
}

// RecentDownloads returns at most n download events, newest first.
func (a *Activity) RecentDownloads(n int) []DownloadEvent {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if n < 0 || n > len(a.downloads) {
		n = len(a.downloads)
	}
	out := make([]DownloadEvent, n)
	copy(out, a.downloads[:n])
	return out
}

// DownloadCount is the number of retained download events.
func (a *Activity) DownloadCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.downloads)
}

// SearchHistory returns every retained search event, newest first.
func (a *Activity) SearchHistory() []SearchEvent {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]SearchEvent, len(a.searches))
	copy(out, a.searches)
	return out
}

// prependCapped returns a new slice with v in front of list, truncated to limit.
func prependCapped[T any](list []T, v T, limit int) []T {
	n := len(list) + 1
	if n > limit {
		n = limit
	}
	out := make([]T, 0, n)
	out = append(out, v)
	out = append(out, list[:n-1]...)
	return out
}
