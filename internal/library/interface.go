// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import "context"

// CatalogStore is the catalog as presentation code sees it.
type CatalogStore interface {
	Subjects() []Subject
	SubjectByID(id string) (Subject, bool)
	Resource(subjectID string, t ResourceType, resourceID string) (Resource, bool)
	AddResource(ctx context.Context, subjectID string, t ResourceType, draft ResourceDraft) (Resource, error)
	RemoveResource(ctx context.Context, subjectID string, t ResourceType, resourceID string) error
	Search(ctx context.Context, query string) []SearchResult
	Stats() Stats
}

// ActivityStore records and lists downloads and searches.
type ActivityStore interface {
	TrackDownload(ctx context.Context, subjectID string, t ResourceType, resourceID, resourceName string) DownloadEvent
	Downloads() []DownloadEvent
	RecentDownloads(n int) []DownloadEvent
	SearchHistory() []SearchEvent
}

// PreferenceStore holds the display theme.
type PreferenceStore interface {
	Theme() ThemeMode
	CustomColors() CustomColors
	Appearance() Appearance
	SetTheme(ctx context.Context, mode ThemeMode) error
	SetCustomColors(ctx context.Context, colors CustomColors) error
}

var (
	_ CatalogStore    = (*Catalog)(nil)
	_ ActivityStore   = (*Activity)(nil)
	_ PreferenceStore = (*Preferences)(nil)
)
