// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mtreilly/math-error/internal/kv"
)

// Catalog owns the subjects and their resources. The subject set is fixed
// once initialized; only the resource sequences change.
type Catalog struct {
	mu       sync.RWMutex
	p        persister
	opts     options
	activity *Activity
	subjects []Subject
}

// NewCatalog creates a catalog holding the built-in subjects. Searches are
// recorded in activity, and activity also feeds Stats.
func NewCatalog(store kv.Store, activity *Activity, opts ...Option) *Catalog {
	o := buildOptions(opts)
	return &Catalog{
		p:        persister{kv: store, logger: o.logger.Named("catalog")},
		opts:     o,
		activity: activity,
		subjects: DefaultSubjects(),
	}
}

// Initialize loads the persisted catalog. A missing snapshot, or one that
// cannot be read or parsed, is discarded in favour of DefaultSubjects; the
// corrupt value is left in storage until the next mutation overwrites it.
func (c *Catalog) Initialize(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var subjects []Subject
	if err := c.p.load(ctx, KeySubjects, &subjects); err != nil {
		c.p.fallback(KeySubjects, err)
		c.subjects = DefaultSubjects()
		return
	}
	if subjects == nil {
		// A stored JSON null carries no catalog.
		c.p.fallback(KeySubjects, fmt.Errorf("%w: %s holds no subject list", ErrStorageUnavailable, KeySubjects))
		c.subjects = DefaultSubjects()
		return
	}
	kept := keepIdentified(subjects)
	if len(kept) < len(subjects) {
		c.p.logger.Warn("dropped subjects without a usable id",
			zap.String("key", KeySubjects),
			zap.Int("dropped", len(subjects)-len(kept)),
		)
	}
	if len(kept) == 0 && len(subjects) > 0 {
		c.p.fallback(KeySubjects, fmt.Errorf("%w: %s holds no identifiable subject", ErrStorageUnavailable, KeySubjects))
		c.subjects = DefaultSubjects()
		return
	}
	for i := range kept {
		kept[i].Resources.normalize()
	}
	c.subjects = kept
}

// keepIdentified drops subjects with an empty id and every repeat of an id
// already seen, so ids stay unique slugs.
func keepIdentified(subjects []Subject) []Subject {
	seen := make(map[string]bool, len(subjects))
	out := make([]Subject, 0, len(subjects))
	for _, s := range subjects {
		if s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}

// Subjects returns a copy of every subject in catalog order.
func (c *Catalog) Subjects() []Subject {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Subject, len(c.subjects))
	for i, s := range c.subjects {
		out[i] = s.clone()
	}
	return out
}

// SubjectByID returns a copy of the subject with the given id.
func (c *Catalog) SubjectByID(id string) (Subject, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(id)
	if i < 0 {
		return Subject{}, false
	}
	return c.subjects[i].clone(), true
}

// Resource looks up a single resource.
func (c *Catalog) Resource(subjectID string, t ResourceType, resourceID string) (Resource, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(subjectID)
	if i < 0 {
		return Resource{}, false
	}
	for _, r := range c.subjects[i].Resources.List(t) {
		if r.ID == resourceID {
			return r, true
		}
	}
	return Resource{}, false
}

func (c *Catalog) indexOf(id string) int {
	for i := range c.subjects {
		if c.subjects[i].ID == id {
			return i
		}
	}
	return -1
}

// AddResource appends a resource built from draft to the end of the subject's
// t sequence and persists the catalog. The draft is stored as given; callers
// facing users should run ValidateDraft first. A persistence failure is logged
// and does not undo the addition.
func (c *Catalog) AddResource(ctx context.Context, subjectID string, t ResourceType, draft ResourceDraft) (Resource, error) {
	if !t.Valid() {
		return Resource{}, fmt.Errorf("%w: %q", ErrInvalidResourceType, t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(subjectID)
	if i < 0 {
		return Resource{}, fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectID)
	}

	r := Resource{
		ID:          c.opts.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		URL:         draft.URL,
		Size:        draft.Size,
		DateAdded:   c.opts.now().UTC(),
	}

	// Copy-on-write so slices handed out earlier never observe the append.
	rs := &c.subjects[i].Resources
	cur := rs.List(t)
	next := make([]Resource, len(cur), len(cur)+1)
	copy(next, cur)
	rs.set(t, append(next, r))

	_ = c.p.save(ctx, KeySubjects, c.subjects)
	resourcesAdded.WithLabelValues(string(t)).Inc()
	return r, nil
}

// RemoveResource deletes the resource with the given id. Removing an id that
// is not present is a no-op and not an error, so the call is idempotent.
// An unknown subject is reported as ErrSubjectNotFound, as in AddResource.
func (c *Catalog) RemoveResource(ctx context.Context, subjectID string, t ResourceType, resourceID string) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidResourceType, t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(subjectID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectID)
	}

	rs := &c.subjects[i].Resources
	cur := rs.List(t)
	next := make([]Resource, 0, len(cur))
	for _, r := range cur {
		if r.ID != resourceID {
			next = append(next, r)
		}
	}
	if len(next) == len(cur) {
		return nil
	}
	rs.set(t, next)

	_ = c.p.save(ctx, KeySubjects, c.subjects)
	resourcesRemoved.WithLabelValues(string(t)).Inc()
	return nil
}

// Search returns every resource whose title or description, or whose
// subject's name, contains query case-insensitively. Results are ordered by
// subject, then type (papers, pedia, videos), then insertion. A blank query
// returns nothing and is not recorded; any other query is recorded in the
// activity log with its result count.
func (c *Catalog) Search(ctx context.Context, query string) []SearchResult {
	if strings.TrimSpace(query) == "" {
		return []SearchResult{}
	}
	needle := strings.ToLower(query)

	c.mu.RLock()
	results := []SearchResult{}
	for _, s := range c.subjects {
		subjectMatch := strings.Contains(strings.ToLower(s.Name), needle)
		for _, t := range ResourceTypes {
			for _, r := range s.Resources.List(t) {
				if subjectMatch ||
					strings.Contains(strings.ToLower(r.Title), needle) ||
					strings.Contains(strings.ToLower(r.Description), needle) {
					results = append(results, SearchResult{
						Resource:     r,
						SubjectID:    s.ID,
						SubjectName:  s.Name,
						ResourceType: t,
					})
				}
			}
		}
	}
	c.mu.RUnlock()

	searchesRun.Inc()
	if c.activity != nil {
		c.activity.RecordSearch(ctx, query, len(results))
	}
	return results
}

// Stats computes catalog totals from current state.
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	total := 0
	for i := range c.subjects {
		total += c.subjects[i].Resources.Len()
	}
	st := Stats{
		TotalSubjects:   len(c.subjects),
		TotalResources:  total,
		RecentDownloads: []DownloadEvent{},
	}
	c.mu.RUnlock()

	if c.activity != nil {
		st.TotalDownloads = c.activity.DownloadCount()
		st.RecentDownloads = c.activity.RecentDownloads(recentDownloadsInStats)
	}
	return st
}
