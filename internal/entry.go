package internal

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryFeature  Category = "feature"
	CategoryBugfix   Category = "bugfix"
	CategoryRefactor Category = "refactor"
	CategoryTesting  Category = "testing"
	CategoryUI       Category = "ui"
	CategoryOther    Category = "other"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryFeature,
		CategoryBugfix,
		CategoryRefactor,
		CategoryTesting,
		CategoryUI,
		CategoryOther,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFeature, CategoryBugfix, CategoryRefactor, CategoryTesting, CategoryUI, CategoryOther:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

type ImpactLevel string

const (
	ImpactMinor    ImpactLevel = "minor"
	ImpactMajor    ImpactLevel = "major"
	ImpactCritical ImpactLevel = "critical"
)

func (l ImpactLevel) Valid() bool {
	switch l {
	case ImpactMinor, ImpactMajor, ImpactCritical:
		return true
	}
	return false
}

func (l ImpactLevel) String() string { return string(l) }

// CodeChange is one recorded code modification, usually derived from a
// version-control commit. Immutable once created.
type CodeChange struct {
	ID           string
	Timestamp    time.Time
	FilesChanged []string
	Description  string
	Category     Category
	CommitHash   string
	Metadata     map[string]string
}

// ProgressEntry is the unit of record and search.
type ProgressEntry struct {
	ID          string
	Date        time.Time
	Title       string
	Description string
	Changes     []CodeChange
	Category    Category
	Tags        []string
	ImpactLevel ImpactLevel
}

// Normalize applies defaults and drops duplicate tags, preserving insertion
// order.
func (e *ProgressEntry) Normalize() {
	if e.ImpactLevel == "" {
		e.ImpactLevel = ImpactMinor
	}
	e.Tags = dedupeTags(e.Tags)
}

// Validate checks the fields required before an entry may be stored. It does
// not mutate the entry; call Normalize first to apply defaults.
func (e *ProgressEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(e.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(e.Description) == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if !e.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category " + string(e.Category)}
	}
	if !e.ImpactLevel.Valid() {
		return &ValidationError{Field: "impact_level", Reason: "unknown impact level " + string(e.ImpactLevel)}
	}
	return nil
}

func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// DateRange is an inclusive [Start, End] bound on entry dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// SearchQuery narrows a similarity search. It is never persisted.
type SearchQuery struct {
	Query      string
	Categories []Category
	Tags       []string
	DateRange  *DateRange
}
