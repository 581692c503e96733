// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtreilly/math-error/internal/kv"
	"github.com/mtreilly/math-error/internal/library"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow downloads and catalog changes made by other processes",
		Long: `Watch the data directory of the file storage backend and print new
downloads and catalog totals as other math-error processes (or the web server)
write them. Requires --storage file.

Examples:
  math-error --storage file watch
  math-error --storage file watch --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, ok := a.store.(*kv.FileStore)
			if !ok {
				return errors.New("watch needs the file storage backend (use --storage file)")
			}

			p := textPrinter(cmd)
			w := newActivityWatcher(cmd.Context(), a.lib, p, debounce)
			p.linef("Watching %s (Ctrl+C to stop)", fs.Dir())

			return fs.Watch(cmd.Context(), w.changed, func(err error) {
				a.logger.Warn("watcher error", zap.Error(err))
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "Quiet time after a write before it is read")
	return cmd
}

// activityWatcher reloads a store after its key settles and prints what
// changed. Writes often arrive as several events, hence one debouncer per key.
type activityWatcher struct {
	ctx   context.Context
	lib   *library.Library
	p     *printer
	delay time.Duration

	mu        sync.Mutex
	pending   map[string]*library.Debouncer
	seen      map[string]bool
	resources int
}

func newActivityWatcher(ctx context.Context, lib *library.Library, p *printer, delay time.Duration) *activityWatcher {
	w := &activityWatcher{
		ctx:       ctx,
		lib:       lib,
		p:         p,
		delay:     delay,
		pending:   make(map[string]*library.Debouncer),
		seen:      make(map[string]bool),
		resources: lib.Catalog.Stats().TotalResources,
	}
	for _, d := range lib.Activity.Downloads() {
		w.seen[d.ID] = true
	}
	return w
}

func (w *activityWatcher) changed(key string) {
	switch key {
	case library.KeyDownloads, library.KeySubjects:
	default:
		return
	}

	w.mu.Lock()
	d, ok := w.pending[key]
	if !ok {
		d = library.NewDebouncer(w.delay)
		w.pending[key] = d
	}
	w.mu.Unlock()

	d.Trigger(func() { w.reload(key) })
}

func (w *activityWatcher) reload(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx := w.ctx
	switch key {
	case library.KeyDownloads:
		w.lib.Activity.Initialize(ctx)
		fresh := unseenDownloads(w.lib.Activity.Downloads(), w.seen)
		// Oldest first reads naturally in a log.
		for i := len(fresh) - 1; i >= 0; i-- {
			d := fresh[i]
			w.seen[d.ID] = true
			w.p.linef("%s  downloaded %q (%s/%s)", d.Timestamp.Local().Format(time.Kitchen), d.ResourceName, d.SubjectID, d.ResourceType)
		}
	case library.KeySubjects:
		w.lib.Catalog.Initialize(ctx)
		total := w.lib.Catalog.Stats().TotalResources
		if total != w.resources {
			w.p.linef("catalog now has %d resources (%+d)", total, total-w.resources)
			w.resources = total
		}
	}
}

// unseenDownloads returns the events in downloads (newest first) whose ids
// are not in seen, preserving order.
func unseenDownloads(downloads []library.DownloadEvent, seen map[string]bool) []library.DownloadEvent {
	var out []library.DownloadEvent
	for _, d := range downloads {
		if !seen[d.ID] {
			out = append(out, d)
		}
	}
	return out
}
