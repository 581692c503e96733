// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/mtreilly/math-error/internal/kv"
)

func resourceIDs(list []Resource) []string {
	ids := make([]string, len(list))
	for i, r := range list {
		ids[i] = r.ID
	}
	return ids
}

func titles(list []Resource) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.Title
	}
	return out
}

func TestCatalogSeedWhenNothingPersisted(t *testing.T) {
	lib := newTestLibrary(t, kv.NewMemoryStore())

	got := lib.Catalog.Subjects()
	want := DefaultSubjects()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Subjects() = %+v, want built-in seed", got)
	}
	if len(got) != 9 {
		t.Fatalf("seed has %d subjects, want 9", len(got))
	}
	for _, s := range got {
		for _, rt := range ResourceTypes {
			list := s.Resources.List(rt)
			if list == nil || len(list) != 0 {
				t.Fatalf("%s/%s: want empty non-nil sequence, got %#v", s.ID, rt, list)
			}
		}
	}
}

func TestCatalogSeedWhenSnapshotCorrupt(t *testing.T) {
	for name, raw := range map[string]string{
		"truncated": `[{"id":"physics","name":"Phys`,
		"wrong":     `{"not":"a list"}`,
		"null":      `null`,
	} {
		t.Run(name, func(t *testing.T) {
			store := kv.NewMemoryStore()
			if err := store.Set(context.Background(), KeySubjects, []byte(raw)); err != nil {
				t.Fatal(err)
			}
			lib := newTestLibrary(t, store)
			if !reflect.DeepEqual(lib.Catalog.Subjects(), DefaultSubjects()) {
				t.Fatal("corrupt snapshot should fall back to the built-in seed")
			}
		})
	}
}

func TestCatalogSeedWhenStorageUnreadable(t *testing.T) {
	store := newFlakyStore()
	store.setFailures(true, false)
	lib := newTestLibrary(t, store)

	if !reflect.DeepEqual(lib.Catalog.Subjects(), DefaultSubjects()) {
		t.Fatal("unreadable storage should fall back to the built-in seed")
	}
	if lib.Activity.DownloadCount() != 0 || len(lib.Activity.SearchHistory()) != 0 {
		t.Fatal("unreadable storage should leave activity logs empty")
	}
}

func TestCatalogLoadsBrowserSnapshot(t *testing.T) {
	// Shape written by the browser build: resources carry millisecond ISO
	// dates, and an older snapshot may lack a sequence entirely.
	raw := `[{"id":"physics","name":"Physics","code":"PHY101","icon":"x","color":"c","description":"d",
		"resources":{"papers":[{"id":"1700000000000","title":"Physics Final Exam 2023","url":"https://example.com/p.pdf","size":"2 MB","dateAdded":"2024-01-05T10:00:00.000Z"}],
		"videos":[]}}]`
	store := kv.NewMemoryStore()
	if err := store.Set(context.Background(), KeySubjects, []byte(raw)); err != nil {
		t.Fatal(err)
	}
	lib := newTestLibrary(t, store)

	subjects := lib.Catalog.Subjects()
	if len(subjects) != 1 {
		t.Fatalf("got %d subjects, want 1", len(subjects))
	}
	s := subjects[0]
	if s.Resources.Pedia == nil {
		t.Fatal("missing pedia sequence should be normalized to empty")
	}
	if len(s.Resources.Papers) != 1 || s.Resources.Papers[0].Title != "Physics Final Exam 2023" {
		t.Fatalf("papers = %+v", s.Resources.Papers)
	}
}

func TestCatalogDropsSubjectsWithoutID(t *testing.T) {
	ctx := context.Background()
	for name, tc := range map[string]struct {
		raw  string
		want []string
	}{
		"null entry":   {`[{"id":"physics","name":"Physics"}, null]`, []string{"physics"}},
		"empty id":     {`[{"id":"","name":"Ghost"}, {"id":"ict","name":"ICT"}]`, []string{"ict"}},
		"repeated id":  {`[{"id":"ict","name":"ICT"}, {"id":"ict","name":"Again"}]`, []string{"ict"}},
		"nothing left": {`[null, {"name":"Ghost"}]`, nil},
	} {
		t.Run(name, func(t *testing.T) {
			store := kv.NewMemoryStore()
			if err := store.Set(ctx, KeySubjects, []byte(tc.raw)); err != nil {
				t.Fatal(err)
			}
			lib := newTestLibrary(t, store)

			subjects := lib.Catalog.Subjects()
			if tc.want == nil {
				if !reflect.DeepEqual(subjects, DefaultSubjects()) {
					t.Fatal("a snapshot with no identifiable subject should fall back to the seed")
				}
				return
			}
			var ids []string
			for _, s := range subjects {
				ids = append(ids, s.ID)
			}
			if !reflect.DeepEqual(ids, tc.want) {
				t.Fatalf("subject ids = %v, want %v", ids, tc.want)
			}
			if subjects[0].Name == "Again" {
				t.Fatal("the first subject with an id wins")
			}
			_, err := lib.Catalog.AddResource(ctx, "", TypePapers, ResourceDraft{Title: "t", URL: "u"})
			if !errors.Is(err, ErrSubjectNotFound) {
				t.Fatalf("AddResource on empty id: err = %v, want ErrSubjectNotFound", err)
			}
		})
	}
}

func TestCatalogInsertionOrder(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t, kv.NewMemoryStore())

	var ids []string
	for _, title := range []string{"A", "B", "C"} {
		r, err := lib.Catalog.AddResource(ctx, "physics", TypePapers, ResourceDraft{Title: title, URL: "https://example.com/" + title})
		if err != nil {
			t.Fatalf("AddResource(%s): %v", title, err)
		}
		ids = append(ids, r.ID)
	}

	s, _ := lib.Catalog.SubjectByID("physics")
	if got := titles(s.Resources.Papers); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("order = %v, want [A B C]", got)
	}

	if err := lib.Catalog.RemoveResource(ctx, "physics", TypePapers, ids[1]); err != nil {
		t.Fatalf("RemoveResource: %v", err)
	}
	s, _ = lib.Catalog.SubjectByID("physics")
	if got := titles(s.Resources.Papers); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Fatalf("order after remove = %v, want [A C]", got)
	}
}

func TestCatalogAddStampsResource(t *testing.T) {
	now := frozenClock()
	lib := newTestLibrary(t, kv.NewMemoryStore(), WithClock(now))

	r, err := lib.Catalog.AddResource(context.Background(), "ict", TypeVideos, ResourceDraft{
		Title:       "Networking basics",
		Description: "Lecture 1",
		URL:         "https://example.com/v",
		Size:        "45 min",
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.ID == "" {
		t.Error("ID should be generated")
	}
	if !r.DateAdded.Equal(now()) {
		t.Errorf("DateAdded = %v, want %v", r.DateAdded, now())
	}
	got, ok := lib.Catalog.Resource("ict", TypeVideos, r.ID)
	if !ok || got != r {
		t.Fatalf("Resource() = %+v, %v; want %+v", got, ok, r)
	}
}

func TestCatalogIDsUniqueWithinOneClockTick(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t, kv.NewMemoryStore(), WithClock(frozenClock()))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		r, err := lib.Catalog.AddResource(ctx, "biology", TypePedia, ResourceDraft{Title: "n", URL: "u"})
		if err != nil {
			t.Fatal(err)
		}
		if seen[r.ID] {
			t.Fatalf("duplicate id %s after %d adds", r.ID, i)
		}
		seen[r.ID] = true
	}
	for i := 0; i < 200; i++ {
		ev := lib.Activity.TrackDownload(ctx, "biology", TypePedia, "x", "n")
		if seen[ev.ID] {
			t.Fatalf("duplicate download id %s", ev.ID)
		}
		seen[ev.ID] = true
	}
}

func TestCatalogRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	lib := newTestLibrary(t, store)

	r, err := lib.Catalog.AddResource(ctx, "chemistry", TypePapers, ResourceDraft{Title: "Organic", URL: "u"})
	if err != nil {
		t.Fatal(err)
	}
	before, _ := store.Get(ctx, KeySubjects)

	if err := lib.Catalog.RemoveResource(ctx, "chemistry", TypePapers, "does-not-exist"); err != nil {
		t.Fatalf("removing a missing id: %v", err)
	}
	after, _ := store.Get(ctx, KeySubjects)
	if string(before) != string(after) {
		t.Fatal("removing a missing id changed the persisted catalog")
	}

	for i := 0; i < 2; i++ {
		if err := lib.Catalog.RemoveResource(ctx, "chemistry", TypePapers, r.ID); err != nil {
			t.Fatalf("remove #%d: %v", i+1, err)
		}
	}
	s, _ := lib.Catalog.SubjectByID("chemistry")
	if len(s.Resources.Papers) != 0 {
		t.Fatalf("papers = %v, want empty", resourceIDs(s.Resources.Papers))
	}
}

func TestCatalogUnknownSubject(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	lib := newTestLibrary(t, store)
	_, setsBefore := store.calls()

	_, err := lib.Catalog.AddResource(ctx, "astrology", TypePapers, ResourceDraft{Title: "t", URL: "u"})
	if !errors.Is(err, ErrSubjectNotFound) {
		t.Fatalf("AddResource: err = %v, want ErrSubjectNotFound", err)
	}
	err = lib.Catalog.RemoveResource(ctx, "astrology", TypePapers, "x")
	if !errors.Is(err, ErrSubjectNotFound) {
		t.Fatalf("RemoveResource: err = %v, want ErrSubjectNotFound", err)
	}
	if _, ok := lib.Catalog.SubjectByID("astrology"); ok {
		t.Fatal("SubjectByID should report not found")
	}
	if _, sets := store.calls(); sets != setsBefore {
		t.Fatal("failed operations must not write")
	}
	if got := lib.Catalog.Stats().TotalResources; got != 0 {
		t.Fatalf("TotalResources = %d, want 0", got)
	}
}

func TestCatalogInvalidType(t *testing.T) {
	lib := newTestLibrary(t, kv.NewMemoryStore())
	_, err := lib.Catalog.AddResource(context.Background(), "physics", ResourceType("slides"), ResourceDraft{Title: "t", URL: "u"})
	if !errors.Is(err, ErrInvalidResourceType) {
		t.Fatalf("err = %v, want ErrInvalidResourceType", err)
	}
}

func TestCatalogStoresUnvalidatedDrafts(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t, kv.NewMemoryStore())

	r, err := lib.Catalog.AddResource(ctx, "ict", TypePapers, ResourceDraft{})
	if err != nil {
		t.Fatalf("store must accept whatever it is given: %v", err)
	}
	if ValidateDraft(ResourceDraft{}) == nil {
		t.Fatal("ValidateDraft should reject the same draft")
	}
	// Search must tolerate the empty fields.
	results := lib.Catalog.Search(ctx, "ICT")
	if len(results) != 1 || results[0].ID != r.ID {
		t.Fatalf("results = %+v", results)
	}
}

func TestCatalogPersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	lib := newTestLibrary(t, store)

	added, err := lib.Catalog.AddResource(ctx, "higher-math", TypeVideos, ResourceDraft{Title: "Calculus", URL: "https://example.com/c"})
	if err != nil {
		t.Fatal(err)
	}

	reloaded := newTestLibrary(t, store)
	got, ok := reloaded.Catalog.Resource("higher-math", TypeVideos, added.ID)
	if !ok {
		t.Fatal("resource missing after reload")
	}
	if got.Title != "Calculus" || !got.DateAdded.Equal(added.DateAdded) {
		t.Fatalf("reloaded = %+v, want %+v", got, added)
	}

	// Persisted sequences are arrays, never null.
	data, _ := store.Get(ctx, KeySubjects)
	var generic []struct {
		Resources map[string]any `json:"resources"`
	}
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatal(err)
	}
	for _, s := range generic {
		for _, rt := range ResourceTypes {
			if _, isList := s.Resources[string(rt)].([]any); !isList {
				t.Fatalf("persisted %s is not an array", rt)
			}
		}
	}
}

func TestCatalogWriteFailureKeepsChange(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	lib := newTestLibrary(t, store)
	store.setFailures(false, true)

	r, err := lib.Catalog.AddResource(ctx, "physics", TypeVideos, ResourceDraft{Title: "Optics", URL: "u"})
	if err != nil {
		t.Fatalf("a failed write must not fail the add: %v", err)
	}
	if _, ok := lib.Catalog.Resource("physics", TypeVideos, r.ID); !ok {
		t.Fatal("resource should be visible in this session")
	}
	if got := lib.Catalog.Stats().TotalResources; got != 1 {
		t.Fatalf("TotalResources = %d, want 1", got)
	}

	// Nothing reached storage, so a reload starts from the seed.
	store.setFailures(false, false)
	reloaded := newTestLibrary(t, store)
	if got := reloaded.Catalog.Stats().TotalResources; got != 0 {
		t.Fatalf("after reload TotalResources = %d, want 0", got)
	}
}

func TestCatalogStatsConsistency(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t, kv.NewMemoryStore())

	type ref struct {
		subject string
		rt      ResourceType
		id      string
	}
	var live []ref
	subjects := []string{"physics", "ict", "biology"}
	for i := 0; i < 30; i++ {
		s := subjects[i%len(subjects)]
		rt := ResourceTypes[i%len(ResourceTypes)]
		r, err := lib.Catalog.AddResource(ctx, s, rt, ResourceDraft{Title: "r", URL: "u"})
		if err != nil {
			t.Fatal(err)
		}
		live = append(live, ref{s, rt, r.ID})
		if i%4 == 3 {
			victim := live[0]
			live = live[1:]
			if err := lib.Catalog.RemoveResource(ctx, victim.subject, victim.rt, victim.id); err != nil {
				t.Fatal(err)
			}
		}

		sum := 0
		for _, subj := range lib.Catalog.Subjects() {
			for _, typ := range ResourceTypes {
				sum += len(subj.Resources.List(typ))
			}
		}
		st := lib.Catalog.Stats()
		if st.TotalResources != sum || sum != len(live) {
			t.Fatalf("step %d: TotalResources = %d, sum = %d, live = %d", i, st.TotalResources, sum, len(live))
		}
		if st.TotalSubjects != 9 {
			t.Fatalf("TotalSubjects = %d, want 9", st.TotalSubjects)
		}
	}
}

func TestCatalogStatsDownloads(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t, kv.NewMemoryStore(), WithIDGenerator(sequentialIDs()))
	for i := 0; i < 12; i++ {
		lib.Activity.TrackDownload(ctx, "physics", TypePapers, "r", "title")
	}
	st := lib.Catalog.Stats()
	if st.TotalDownloads != 12 {
		t.Fatalf("TotalDownloads = %d, want 12", st.TotalDownloads)
	}
	if len(st.RecentDownloads) != 10 {
		t.Fatalf("RecentDownloads has %d, want 10", len(st.RecentDownloads))
	}
	if st.RecentDownloads[0].ID != "id-12" {
		t.Fatalf("newest first: got %s", st.RecentDownloads[0].ID)
	}
}

func TestCatalogSubjectsAreCopies(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t, kv.NewMemoryStore())
	if _, err := lib.Catalog.AddResource(ctx, "physics", TypePapers, ResourceDraft{Title: "A", URL: "u"}); err != nil {
		t.Fatal(err)
	}

	s, _ := lib.Catalog.SubjectByID("physics")
	s.Resources.Papers[0].Title = "mutated"
	s.Name = "mutated"

	again, _ := lib.Catalog.SubjectByID("physics")
	if again.Name != "Physics" || again.Resources.Papers[0].Title != "A" {
		t.Fatal("callers must not be able to mutate catalog state")
	}
}
