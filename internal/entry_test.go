package internal

import (
	"errors"
	"testing"
	"time"
)

func validEntry() *ProgressEntry {
	return &ProgressEntry{
		ID:          "entry-1",
		Date:        time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		Title:       "Add retry logic to uploader",
		Description: "Uploads now retry transient failures with backoff.",
		Category:    CategoryFeature,
		Tags:        []string{"uploader", "reliability"},
		ImpactLevel: ImpactMinor,
	}
}

func TestEntryValidateOK(t *testing.T) {
	e := validEntry()
	e.Normalize()
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
}

func TestEntryValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ProgressEntry)
		field  string
	}{
		{"empty id", func(e *ProgressEntry) { e.ID = "" }, "id"},
		{"blank id", func(e *ProgressEntry) { e.ID = "   " }, "id"},
		{"empty title", func(e *ProgressEntry) { e.Title = "" }, "title"},
		{"empty description", func(e *ProgressEntry) { e.Description = "" }, "description"},
		{"unknown category", func(e *ProgressEntry) { e.Category = "banana" }, "category"},
		{"unknown impact", func(e *ProgressEntry) { e.ImpactLevel = "huge" }, "impact_level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validEntry()
			tc.mutate(e)
			err := e.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestNormalizeDefaultsImpact(t *testing.T) {
	e := validEntry()
	e.ImpactLevel = ""
	e.Normalize()
	if e.ImpactLevel != ImpactMinor {
		t.Errorf("expected default impact %q, got %q", ImpactMinor, e.ImpactLevel)
	}
}

func TestNormalizeDedupesTags(t *testing.T) {
	e := validEntry()
	e.Tags = []string{"api", "search", "api", "ux", "search"}
	e.Normalize()

	want := []string{"api", "search", "ux"}
	if len(e.Tags) != len(want) {
		t.Fatalf("expected %d tags, got %d: %v", len(want), len(e.Tags), e.Tags)
	}
	for i, tag := range want {
		if e.Tags[i] != tag {
			t.Errorf("tag %d: expected %q, got %q", i, tag, e.Tags[i])
		}
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		t    time.Time
		want bool
	}{
		{r.Start, true},
		{r.End, true},
		{r.Start.Add(-time.Second), false},
		{r.End.Add(time.Second), false},
		{time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		if got := r.Contains(tc.t); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}
}

func TestCategoriesCoverValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Errorf("Categories() returned invalid category %q", c)
		}
	}
	if Category("nope").Valid() {
		t.Error("unknown category reported valid")
	}
}
