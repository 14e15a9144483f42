package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/devlog-sh/devlog/internal"
	"github.com/rs/zerolog"
)

// Client provides in-process access to a progress log, the same engine the
// CLI and HTTP server use.
type Client struct {
	engine   *internal.Engine
	embedder internal.Embedder
	scope    internal.Scope
}

// New opens the progress log selected by the options. Without WithDataPath,
// the scope is resolved like the CLI does ("project" walking up from the
// working directory, falling back to "global").
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var scope internal.Scope
	if cfg.dataPath != "" {
		scope = internal.Scope{Type: internal.ScopeProject, Path: cfg.dataPath, DataPath: cfg.dataPath}
	} else {
		scope = internal.NewScopeResolver().Resolve(cfg.scope)
	}

	fileCfg, err := internal.LoadConfig(scope)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	embedder := cfg.embedder
	if embedder == nil {
		embedder, err = internal.NewEmbedder(fileCfg.Embeddings)
		if err != nil {
			return nil, fmt.Errorf("create embedder: %w", err)
		}
	}

	index, err := internal.NewAnnoyIndex(scope.VectorPath(), embedder.Dimension())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	store, err := internal.OpenVectorStore(scope.VectorPath(), embedder, index, false)
	if err != nil {
		return nil, err
	}

	return &Client{
		engine:   internal.NewEngine(store, zerolog.Nop()),
		embedder: embedder,
		scope:    scope,
	}, nil
}

// Add stores an entry and returns its id.
func (c *Client) Add(ctx context.Context, entry Entry) (string, error) {
	return c.engine.Add(ctx, toInternal(entry))
}

// Get returns the entry with the given id, or nil when absent.
func (c *Client) Get(ctx context.Context, id string) (*Entry, error) {
	entry, err := c.engine.Get(id)
	if err != nil || entry == nil {
		return nil, err
	}
	out := fromInternal(entry)
	return &out, nil
}

// Search returns up to limit entries similar to the query, closest first.
func (c *Client) Search(ctx context.Context, query Query, limit int) ([]Entry, error) {
	q := internal.SearchQuery{Query: query.Query, Tags: query.Tags}
	for _, cat := range query.Categories {
		q.Categories = append(q.Categories, internal.Category(cat))
	}
	if query.DateStart != nil && query.DateEnd != nil {
		q.DateRange = &internal.DateRange{Start: *query.DateStart, End: *query.DateEnd}
	}

	entries, err := c.engine.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, fromInternal(e))
	}
	return out, nil
}

// SyncSince imports commits newer than since from the repository at repoPath.
func (c *Client) SyncSince(ctx context.Context, repoPath string, since time.Time) (*SyncReport, error) {
	log, err := internal.OpenCommitLog(repoPath, zerolog.Nop())
	if err != nil {
		return nil, err
	}
	changes, err := log.ChangesSince(ctx, since)
	if err != nil {
		return nil, err
	}

	report, err := c.engine.SyncFromGit(ctx, changes)
	if err != nil {
		return nil, err
	}

	out := &SyncReport{Added: report.Added}
	if len(report.Failures) > 0 {
		out.Failures = make(map[string]string, len(report.Failures))
		for _, f := range report.Failures {
			out.Failures[f.ChangeID] = f.Err.Error()
		}
	}
	return out, nil
}

// Close releases the client's resources.
func (c *Client) Close() error {
	return c.embedder.Close()
}

func toInternal(e Entry) *internal.ProgressEntry {
	entry := &internal.ProgressEntry{
		ID:          e.ID,
		Date:        e.Date,
		Title:       e.Title,
		Description: e.Description,
		Category:    internal.Category(e.Category),
		Tags:        e.Tags,
		ImpactLevel: internal.ImpactLevel(e.ImpactLevel),
	}
	for _, c := range e.Changes {
		entry.Changes = append(entry.Changes, internal.CodeChange{
			Timestamp:    c.Timestamp,
			FilesChanged: c.FilesChanged,
			Description:  c.Description,
			Category:     internal.Category(c.Category),
			CommitHash:   c.CommitHash,
			Metadata:     c.Metadata,
		})
	}
	return entry
}

func fromInternal(e *internal.ProgressEntry) Entry {
	entry := Entry{
		ID:          e.ID,
		Date:        e.Date,
		Title:       e.Title,
		Description: e.Description,
		Category:    string(e.Category),
		Tags:        e.Tags,
		ImpactLevel: string(e.ImpactLevel),
	}
	for _, c := range e.Changes {
		entry.Changes = append(entry.Changes, Change{
			Timestamp:    c.Timestamp,
			FilesChanged: c.FilesChanged,
			Description:  c.Description,
			Category:     string(c.Category),
			CommitHash:   c.CommitHash,
			Metadata:     c.Metadata,
		})
	}
	return entry
}
