// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"fmt"
	"strings"
	"time"
)

// ResourceType names one of the three resource sequences a subject holds.
type ResourceType string

const (
	TypePapers ResourceType = "papers" // past exam and question papers
	TypePedia  ResourceType = "pedia"  // study notes
	TypeVideos ResourceType = "videos" // lectures, tutorials
)

// ResourceTypes lists the types in display and search order.
var ResourceTypes = []ResourceType{TypePapers, TypePedia, TypeVideos}

// ParseResourceType accepts a type name case-insensitively, plus the "notes"
// alias for pedia.
func ParseResourceType(s string) (ResourceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "papers", "paper":
		return TypePapers, nil
	case "pedia", "notes", "note":
		return TypePedia, nil
	case "videos", "video":
		return TypeVideos, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidResourceType, s)
}

// Valid reports whether t is one of the three known types.
func (t ResourceType) Valid() bool {
	return t == TypePapers || t == TypePedia || t == TypeVideos
}

// Label is the display name of the type.
func (t ResourceType) Label() string {
	switch t {
	case TypePapers:
		return "Papers"
	case TypePedia:
		return "Notes"
	case TypeVideos:
		return "Videos"
	}
	return string(t)
}

// Resource is one linked item inside a subject's sequence. Fields are never
// edited after creation.
type Resource struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string    `json:"url" yaml:"url"`
	Size        string    `json:"size,omitempty" yaml:"size,omitempty"` // freeform, e.g. "2.4 MB"
	DateAdded   time.Time `json:"dateAdded" yaml:"dateAdded"`
}

// ResourceDraft carries the caller-supplied fields of a new resource.
type ResourceDraft struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string `json:"url" yaml:"url"`
	Size        string `json:"size,omitempty" yaml:"size,omitempty"`
}

// ResourceSet holds a subject's three ordered sequences.
type ResourceSet struct {
	Papers []Resource `json:"papers" yaml:"papers"`
	Pedia  []Resource `json:"pedia" yaml:"pedia"`
	Videos []Resource `json:"videos" yaml:"videos"`
}

// List returns the sequence for t, or nil for an unknown type.
func (rs *ResourceSet) List(t ResourceType) []Resource {
	switch t {
	case TypePapers:
		return rs.Papers
	case TypePedia:
		return rs.Pedia
	case TypeVideos:
		return rs.Videos
	}
	return nil
}

func (rs *ResourceSet) set(t ResourceType, list []Resource) {
	switch t {
	case TypePapers:
		rs.Papers = list
	case TypePedia:
		rs.Pedia = list
	case TypeVideos:
		rs.Videos = list
	}
}

// Len is the total number of resources across all three sequences.
func (rs *ResourceSet) Len() int {
	return len(rs.Papers) + len(rs.Pedia) + len(rs.Videos)
}

// normalize replaces nil sequences with empty ones so they persist as [].
func (rs *ResourceSet) normalize() {
	for _, t := range ResourceTypes {
		if rs.List(t) == nil {
			rs.set(t, []Resource{})
		}
	}
}

func (rs ResourceSet) clone() ResourceSet {
	var out ResourceSet
	for _, t := range ResourceTypes {
		src := rs.List(t)
		dst := make([]Resource, len(src))
		copy(dst, src)
		out.set(t, dst)
	}
	return out
}

// Subject is a fixed top-level catalog entry. Everything but Resources is
// display metadata the store never interprets.
type Subject struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Code        string      `json:"code" yaml:"code"`
	Icon        string      `json:"icon" yaml:"icon"`
	Color       string      `json:"color" yaml:"color"`
	Description string      `json:"description" yaml:"description"`
	Resources   ResourceSet `json:"resources" yaml:"resources"`
}

func (s Subject) clone() Subject {
	s.Resources = s.Resources.clone()
	return s
}

// SearchResult is a matching resource annotated with where it lives.
type SearchResult struct {
	Resource     `yaml:",inline"`
	SubjectID    string       `json:"subjectId" yaml:"subjectId"`
	SubjectName  string       `json:"subjectName" yaml:"subjectName"`
	ResourceType ResourceType `json:"resourceType" yaml:"resourceType"`
}

// DownloadEvent records that a resource link was opened.
type DownloadEvent struct {
	ID           string       `json:"id" yaml:"id"`
	SubjectID    string       `json:"subjectId" yaml:"subjectId"`
	ResourceType ResourceType `json:"resourceType" yaml:"resourceType"`
	ResourceID   string       `json:"resourceId" yaml:"resourceId"`
	ResourceName string       `json:"resourceName" yaml:"resourceName"` // title at click time
	Timestamp    time.Time    `json:"timestamp" yaml:"timestamp"`
	Date         string       `json:"date" yaml:"date"` // display date derived from Timestamp
}

// SearchEvent records a search and how many results it produced.
type SearchEvent struct {
	ID        string    `json:"id" yaml:"id"`
	Query     string    `json:"query" yaml:"query"`
	Results   int       `json:"results" yaml:"results"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Stats is an on-demand aggregate over the catalog and activity log.
type Stats struct {
	TotalSubjects   int             `json:"totalSubjects" yaml:"totalSubjects"`
	TotalResources  int             `json:"totalResources" yaml:"totalResources"`
	TotalDownloads  int             `json:"totalDownloads" yaml:"totalDownloads"`
	RecentDownloads []DownloadEvent `json:"recentDownloads" yaml:"recentDownloads"`
}
