// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mtreilly/math-error/internal/library"
)

// useFileStorage points every command run by the test at a fresh data
// directory, so state carries over between invocations.
func useFileStorage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MATH_ERROR_CONFIG", "")
	t.Setenv("MATH_ERROR_STORAGE_BACKEND", "file")
	t.Setenv("MATH_ERROR_STORAGE_DIR", dir)
	t.Setenv("MATH_ERROR_LOG_LEVEL", "error")
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	require.NoError(t, a.close())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func decodeJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}

func addResource(t *testing.T, subject, rt, title, url string) library.Resource {
	t.Helper()
	out := mustRun(t, "add", subject, rt, "--title", title, "--url", url, "-o", "json")
	return decodeJSON[library.Resource](t, out)
}

func TestSubjectsCommand(t *testing.T) {
	useFileStorage(t)

	subjects := decodeJSON[[]library.Subject](t, mustRun(t, "subjects"))
	require.Len(t, subjects, 9)
	assert.Equal(t, "physics", subjects[6].ID)

	table := mustRun(t, "subjects", "-o", "table")
	assert.Contains(t, table, "NAME")
	assert.Contains(t, table, "Higher Mathematics")

	var fromYAML []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(mustRun(t, "ls", "-o", "yaml")), &fromYAML))
	assert.Len(t, fromYAML, 9)

	_, err := runCLI(t, "", "subjects", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestAddPersistsAcrossInvocations(t *testing.T) {
	useFileStorage(t)

	r := addResource(t, "physics", "papers", "Physics Final Exam 2023", "https://example.com/p.pdf")
	assert.NotEmpty(t, r.ID)

	s := decodeJSON[library.Subject](t, mustRun(t, "subject", "physics"))
	require.Len(t, s.Resources.Papers, 1)
	assert.Equal(t, r.ID, s.Resources.Papers[0].ID)

	text := mustRun(t, "subject", "physics", "-o", "table")
	assert.Contains(t, text, "Physics Final Exam 2023")
	assert.Contains(t, text, "nothing here yet")
}

func TestAddRejectsBadInput(t *testing.T) {
	useFileStorage(t)

	_, err := runCLI(t, "", "add", "physics", "papers", "--title", "No URL")
	assert.ErrorIs(t, err, library.ErrValidation)

	_, err = runCLI(t, "", "add", "astrology", "papers", "--title", "t", "--url", "u")
	assert.ErrorIs(t, err, library.ErrSubjectNotFound)

	_, err = runCLI(t, "", "add", "physics", "slides", "--title", "t", "--url", "u")
	assert.ErrorIs(t, err, library.ErrInvalidResourceType)

	st := decodeJSON[library.Stats](t, mustRun(t, "stats"))
	assert.Zero(t, st.TotalResources)
}

func TestRemoveConfirmation(t *testing.T) {
	useFileStorage(t)
	r := addResource(t, "chemistry", "notes", "Organic", "https://example.com/o")

	out, err := runCLI(t, "n\n", "remove", "chemistry", "pedia", r.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Equal(t, 1, decodeJSON[library.Stats](t, mustRun(t, "stats")).TotalResources)

	out, err = runCLI(t, "y\n", "remove", "chemistry", "pedia", r.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")
	assert.Zero(t, decodeJSON[library.Stats](t, mustRun(t, "stats")).TotalResources)

	// Removing again is a no-op.
	out = mustRun(t, "rm", "chemistry", "pedia", r.ID, "--yes")
	assert.Contains(t, out, "nothing to remove")

	_, err = runCLI(t, "", "remove", "astrology", "pedia", r.ID, "--yes")
	assert.ErrorIs(t, err, library.ErrSubjectNotFound)
}

func TestSearchAndHistory(t *testing.T) {
	useFileStorage(t)
	addResource(t, "physics", "papers", "Physics Final Exam 2023", "u")
	addResource(t, "chemistry", "papers", "Organic", "u")

	results := decodeJSON[[]library.SearchResult](t, mustRun(t, "search", "FINAL"))
	require.Len(t, results, 1)
	assert.Equal(t, "Physics", results[0].SubjectName)
	assert.Equal(t, library.TypePapers, results[0].ResourceType)

	out := mustRun(t, "search", "nothing", "matches", "-o", "table")
	assert.Contains(t, out, `No resources match "nothing matches"`)

	// No query prints help and records nothing.
	out = mustRun(t, "search")
	assert.Contains(t, out, "Usage:")

	history := decodeJSON[[]library.SearchEvent](t, mustRun(t, "history"))
	require.Len(t, history, 2)
	assert.Equal(t, "nothing matches", history[0].Query)
	assert.Equal(t, "FINAL", history[1].Query)
	assert.Equal(t, 1, history[1].Results)
}

func TestInteractiveSearchFlag(t *testing.T) {
	useFileStorage(t)
	addResource(t, "biology", "videos", "Cells", "u")

	out, err := runCLI(t, "c\nce\ncel\n", "search", "-i", "--debounce", "1h", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, `Found 1 result(s) for "cel"`)
	assert.NotContains(t, out, `for "ce"`)

	history := decodeJSON[[]library.SearchEvent](t, mustRun(t, "history"))
	require.Len(t, history, 1)
	assert.Equal(t, "cel", history[0].Query)
}

func TestOpenTracksDownload(t *testing.T) {
	useFileStorage(t)
	r := addResource(t, "ict", "videos", "Networking basics", "https://example.com/net")

	out := mustRun(t, "open", "ict", "videos", r.ID, "--print")
	assert.Equal(t, "https://example.com/net\n", out)

	downloads := decodeJSON[[]library.DownloadEvent](t, mustRun(t, "downloads"))
	require.Len(t, downloads, 1)
	assert.Equal(t, r.ID, downloads[0].ResourceID)
	assert.Equal(t, "Networking basics", downloads[0].ResourceName)
	assert.NotEmpty(t, downloads[0].Date)

	_, err := runCLI(t, "", "open", "ict", "videos", "missing", "--print")
	assert.Error(t, err)

	st := decodeJSON[library.Stats](t, mustRun(t, "stats"))
	assert.Equal(t, 1, st.TotalDownloads)
	require.Len(t, st.RecentDownloads, 1)

	text := mustRun(t, "stats", "-o", "table")
	assert.Contains(t, text, "Downloads:  1")
	assert.Contains(t, text, "Networking basics")
}

func TestThemeCommands(t *testing.T) {
	useFileStorage(t)

	st := decodeJSON[themeState](t, mustRun(t, "theme"))
	assert.Equal(t, library.ThemeLight, st.Mode)

	mustRun(t, "theme", "colors", "#123456", "#abcdef")
	st = decodeJSON[themeState](t, mustRun(t, "theme", "set", "custom"))
	assert.Equal(t, library.ThemeCustom, st.Mode)
	assert.Equal(t, "18 52 86", st.Appearance.Vars["--custom-primary"])

	// Survives a new process.
	st = decodeJSON[themeState](t, mustRun(t, "theme"))
	assert.Equal(t, library.ThemeCustom, st.Mode)
	assert.Equal(t, "#abcdef", st.CustomColors.PrimaryForeground)

	_, err := runCLI(t, "", "theme", "set", "sepia")
	assert.ErrorIs(t, err, library.ErrInvalidTheme)
	_, err = runCLI(t, "", "theme", "colors", "green", "#000000")
	assert.ErrorIs(t, err, library.ErrValidation)

	list := mustRun(t, "theme", "list", "-o", "table")
	assert.Contains(t, list, "High Contrast")
}

func TestWatchNeedsFileStorage(t *testing.T) {
	useFileStorage(t)
	_, err := runCLI(t, "", "--storage", "memory", "watch")
	assert.ErrorContains(t, err, "file storage backend")
}

func TestInteractiveSearchDebounces(t *testing.T) {
	var (
		mu  sync.Mutex
		ran []string
	)
	run := func(q string) error {
		mu.Lock()
		ran = append(ran, q)
		mu.Unlock()
		return nil
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- interactiveSearch(context.Background(), pr, 20*time.Millisecond, run) }()

	_, _ = io.WriteString(pw, "p\nph\nphys\n")
	time.Sleep(150 * time.Millisecond)
	_, _ = io.WriteString(pw, "chem\n")
	require.NoError(t, pw.Close())
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"phys", "chem"}, ran)
}

func TestUnseenDownloads(t *testing.T) {
	downloads := []library.DownloadEvent{{ID: "c"}, {ID: "b"}, {ID: "a"}}
	fresh := unseenDownloads(downloads, map[string]bool{"a": true})
	require.Len(t, fresh, 2)
	assert.Equal(t, "c", fresh[0].ID)
	assert.Equal(t, "b", fresh[1].ID)
}

func TestActivityWatcherReportsNewDownloads(t *testing.T) {
	useFileStorage(t)
	r := addResource(t, "physics", "papers", "Waves", "u")

	a := &app{}
	require.NoError(t, a.open(context.Background()))
	defer a.close()

	var out bytes.Buffer
	w := newActivityWatcher(context.Background(), a.lib, &printer{w: &out, format: formatTable}, time.Millisecond)

	// Another process opens the resource.
	mustRun(t, "open", "physics", "papers", r.ID, "--print")
	w.reload(library.KeyDownloads)
	assert.Contains(t, out.String(), `downloaded "Waves"`)

	out.Reset()
	w.reload(library.KeyDownloads)
	assert.Empty(t, out.String())

	addResource(t, "physics", "videos", "Optics", "u")
	w.reload(library.KeySubjects)
	assert.Contains(t, out.String(), "catalog now has 2 resources (+1)")
}
