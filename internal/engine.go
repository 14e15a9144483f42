package internal

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const DefaultSearchLimit = 5

// Engine is the progress storage engine: it validates entries, renders them
// into documents, and owns the mapping between entries and their stored
// representation in the vector store.
type Engine struct {
	store  *VectorStore
	logger zerolog.Logger
}

func NewEngine(store *VectorStore, logger zerolog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Add validates and stores one entry, returning its id. The entry is
// immutable once stored; there is no update or delete.
func (e *Engine) Add(ctx context.Context, entry *ProgressEntry) (string, error) {
	entry.Normalize()
	if err := entry.Validate(); err != nil {
		return "", err
	}

	if e.store.Exists(Filter{MetaID: {entry.ID}}) {
		return "", &DuplicateIDError{ID: entry.ID}
	}

	text, metadata := RenderDocument(entry)
	if _, err := e.store.Upsert(ctx, text, metadata); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// Search returns up to limit entries ordered by ascending distance from the
// query embedding; the adapter's ordering is the result ordering, no
// re-ranking happens here. Category and tag filters are pushed into the
// store. The date range is applied as a post-filter, so a nearby result
// outside the range is dropped without being replaced; callers wanting
// date-bounded search should pass a larger limit.
func (e *Engine) Search(ctx context.Context, query SearchQuery, limit int) ([]*ProgressEntry, error) {
	if strings.TrimSpace(query.Query) == "" {
		return nil, &ValidationError{Field: "query", Reason: "must not be empty"}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	filter := Filter{}
	if len(query.Categories) > 0 {
		cats := make([]string, len(query.Categories))
		for i, c := range query.Categories {
			cats[i] = string(c)
		}
		filter[MetaCategory] = cats
	}
	if len(query.Tags) > 0 {
		filter[MetaTags] = query.Tags
	}

	hits, err := e.store.Query(ctx, query.Query, filter, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]*ProgressEntry, 0, len(hits))
	for _, hit := range hits {
		entry, err := ParseDocument(hit.Text, hit.Metadata)
		if err != nil {
			e.logger.Warn().
				Err(err).
				Str("id", hit.Metadata[MetaID]).
				Msg("skipping malformed stored document")
			continue
		}
		if query.DateRange != nil && !query.DateRange.Contains(entry.Date) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Get returns the stored entry with the given id, or nil when absent.
func (e *Engine) Get(id string) (*ProgressEntry, error) {
	hits := e.store.Find(Filter{MetaID: {id}})
	if len(hits) == 0 {
		return nil, nil
	}
	return ParseDocument(hits[0].Text, hits[0].Metadata)
}

// SyncFailure records one change that could not be stored during a sync.
type SyncFailure struct {
	ChangeID string
	Err      error
}

// SyncReport summarizes a sync run: how many entries were added and which
// changes failed.
type SyncReport struct {
	Added    int
	Failures []SyncFailure
}

// SyncFromGit stores one entry per change. It is fail-soft: a failing change
// is recorded and the rest keep processing.
func (e *Engine) SyncFromGit(ctx context.Context, changes []CodeChange) (*SyncReport, error) {
	report := &SyncReport{}
	for _, change := range changes {
		entry := EntryFromChange(change)
		if _, err := e.Add(ctx, entry); err != nil {
			e.logger.Warn().
				Err(err).
				Str("change_id", change.ID).
				Str("commit", change.CommitHash).
				Msg("skipping change")
			report.Failures = append(report.Failures, SyncFailure{ChangeID: change.ID, Err: err})
			continue
		}
		report.Added++
	}
	return report, nil
}

// EntryFromChange synthesizes a progress entry from a single code change.
// The title is the first line of the change description; the change itself
// becomes the entry's only change record.
func EntryFromChange(change CodeChange) *ProgressEntry {
	id := change.CommitHash
	if id == "" {
		id = uuid.NewString()
	}

	title, _, _ := strings.Cut(strings.TrimSpace(change.Description), "\n")

	return &ProgressEntry{
		ID:          id,
		Date:        change.Timestamp,
		Title:       strings.TrimSpace(title),
		Description: change.Description,
		Changes:     []CodeChange{change},
		Category:    change.Category,
		Tags:        []string{string(change.Category)},
		ImpactLevel: ImpactMinor,
	}
}

// Count reports how many entries the engine has stored.
func (e *Engine) Count() int { return e.store.Count() }
