package internal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Metadata keys stored alongside each document. These are the only fields the
// store can filter on; every filterable field must be duplicated here because
// the adapter's filter predicate never sees the embedded text.
const (
	MetaID          = "id"
	MetaDate        = "date"
	MetaCategory    = "category"
	MetaTags        = "tags"
	MetaImpactLevel = "impact_level"
)

const (
	titleLabel       = "Title: "
	descriptionLabel = "\nDescription:\n"
	changesLabel     = "\n\nChanges:\n"
)

// RenderDocument serializes an entry into the text blob that gets embedded
// plus the flat metadata record used for filtering. Field order is fixed:
// the distinctive free-text fields lead so they dominate the embedding.
func RenderDocument(e *ProgressEntry) (string, map[string]string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", e.Title)
	fmt.Fprintf(&b, "Date: %s\n", e.Date.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Category: %s\n", e.Category)
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(e.Tags, ", "))
	fmt.Fprintf(&b, "Impact: %s\n", e.ImpactLevel)
	b.WriteString(descriptionLabel)
	b.WriteString(e.Description)
	b.WriteString(changesLabel)
	for _, c := range e.Changes {
		fmt.Fprintf(&b, "- [%s] %s (Files: %s)\n",
			c.Timestamp.UTC().Format(time.RFC3339),
			c.Description,
			strings.Join(c.FilesChanged, ", "))
	}

	tags, _ := json.Marshal(e.Tags)
	metadata := map[string]string{
		MetaID:          e.ID,
		MetaDate:        e.Date.UTC().Format(time.RFC3339),
		MetaCategory:    string(e.Category),
		MetaTags:        string(tags),
		MetaImpactLevel: string(e.ImpactLevel),
	}
	return b.String(), metadata
}

// ParseDocument reconstructs an entry from a stored document. The inverse of
// RenderDocument for every flat field; Changes cannot be recovered from the
// flattened text and is always empty.
func ParseDocument(text string, metadata map[string]string) (*ProgressEntry, error) {
	title, err := parseTitle(text)
	if err != nil {
		return nil, err
	}
	description, err := parseDescription(text)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(time.RFC3339, metadata[MetaDate])
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("bad date metadata %q", metadata[MetaDate])}
	}

	var tags []string
	if raw := metadata[MetaTags]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("bad tags metadata %q", raw)}
		}
	}

	return &ProgressEntry{
		ID:          metadata[MetaID],
		Date:        date,
		Title:       title,
		Description: description,
		Changes:     nil,
		Category:    Category(metadata[MetaCategory]),
		Tags:        tags,
		ImpactLevel: ImpactLevel(metadata[MetaImpactLevel]),
	}, nil
}

func parseTitle(text string) (string, error) {
	line, _, _ := strings.Cut(text, "\n")
	title, ok := strings.CutPrefix(line, titleLabel)
	if !ok {
		return "", &ParseError{Reason: "missing Title header"}
	}
	return title, nil
}

// parseDescription extracts the span between the Description and Changes
// labels. The changes section is always rendered last, so the last occurrence
// of the label is the real one even when the description body contains it.
func parseDescription(text string) (string, error) {
	start := strings.Index(text, descriptionLabel)
	if start < 0 {
		return "", &ParseError{Reason: "missing Description section"}
	}
	body := text[start+len(descriptionLabel):]

	end := strings.LastIndex(body, changesLabel)
	if end < 0 {
		return "", &ParseError{Reason: "missing Changes section"}
	}
	return body[:end], nil
}
