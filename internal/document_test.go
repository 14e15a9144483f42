package internal

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRenderDocumentLayout(t *testing.T) {
	e := validEntry()
	e.Changes = []CodeChange{{
		Timestamp:    time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC),
		FilesChanged: []string{"internal/upload.go", "internal/retry.go"},
		Description:  "add exponential backoff",
	}}

	text, metadata := RenderDocument(e)

	if !strings.HasPrefix(text, "Title: Add retry logic to uploader\n") {
		t.Errorf("unexpected document start: %q", text[:40])
	}
	for _, want := range []string{
		"Category: feature\n",
		"Tags: uploader, reliability\n",
		"Impact: minor\n",
		"\nDescription:\nUploads now retry",
		"\n\nChanges:\n- [2025-03-14T08:30:00Z] add exponential backoff (Files: internal/upload.go, internal/retry.go)\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("document missing %q:\n%s", want, text)
		}
	}

	if metadata[MetaID] != "entry-1" {
		t.Errorf("metadata id = %q", metadata[MetaID])
	}
	if metadata[MetaCategory] != "feature" {
		t.Errorf("metadata category = %q", metadata[MetaCategory])
	}
	if metadata[MetaTags] != `["uploader","reliability"]` {
		t.Errorf("metadata tags = %q", metadata[MetaTags])
	}
	if metadata[MetaImpactLevel] != "minor" {
		t.Errorf("metadata impact = %q", metadata[MetaImpactLevel])
	}
	if metadata[MetaDate] != "2025-03-14T09:00:00Z" {
		t.Errorf("metadata date = %q", metadata[MetaDate])
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	e := validEntry()
	e.Changes = []CodeChange{{
		Timestamp:   time.Now().UTC(),
		Description: "change that will not survive the round trip",
	}}

	text, metadata := RenderDocument(e)
	got, err := ParseDocument(text, metadata)
	if err != nil {
		t.Fatalf("ParseDocument() returned error: %v", err)
	}

	if got.ID != e.ID {
		t.Errorf("id = %q, want %q", got.ID, e.ID)
	}
	if got.Title != e.Title {
		t.Errorf("title = %q, want %q", got.Title, e.Title)
	}
	if got.Description != e.Description {
		t.Errorf("description = %q, want %q", got.Description, e.Description)
	}
	if !got.Date.Equal(e.Date) {
		t.Errorf("date = %v, want %v", got.Date, e.Date)
	}
	if got.Category != e.Category {
		t.Errorf("category = %q, want %q", got.Category, e.Category)
	}
	if got.ImpactLevel != e.ImpactLevel {
		t.Errorf("impact = %q, want %q", got.ImpactLevel, e.ImpactLevel)
	}
	if strings.Join(got.Tags, ",") != strings.Join(e.Tags, ",") {
		t.Errorf("tags = %v, want %v", got.Tags, e.Tags)
	}
	// Changes are flattened into prose and cannot be reconstructed.
	if len(got.Changes) != 0 {
		t.Errorf("expected empty changes, got %v", got.Changes)
	}
}

func TestDocumentRoundTripDescriptionWithChangesMarker(t *testing.T) {
	e := validEntry()
	e.Description = "First half.\n\nChanges:\nnot really a section, just prose."

	text, metadata := RenderDocument(e)
	got, err := ParseDocument(text, metadata)
	if err != nil {
		t.Fatalf("ParseDocument() returned error: %v", err)
	}
	if got.Description != e.Description {
		t.Errorf("description = %q, want %q", got.Description, e.Description)
	}
}

func TestParseDocumentErrors(t *testing.T) {
	e := validEntry()
	text, metadata := RenderDocument(e)

	cases := []struct {
		name     string
		text     string
		metadata map[string]string
	}{
		{"missing title", strings.TrimPrefix(text, "Title: "), metadata},
		{"missing description", "Title: x\nDate: y\n\nChanges:\n", metadata},
		{"missing changes", "Title: x\n\nDescription:\nbody only", metadata},
		{"bad date", text, map[string]string{MetaDate: "yesterday", MetaTags: "[]"}},
		{"bad tags", text, map[string]string{MetaDate: metadata[MetaDate], MetaTags: "{"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDocument(tc.text, tc.metadata)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}
