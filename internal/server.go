package internal

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Server is the thin HTTP adapter over the engine's two operations plus the
// git sync pipeline. All domain logic stays in the engine.
type Server struct {
	echo    *echo.Echo
	engine  *Engine
	commits *CommitLog
	logger  zerolog.Logger
}

func NewServer(engine *Engine, commits *CommitLog, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, engine: engine, commits: commits, logger: logger}

	api := e.Group("/api/v1")
	api.POST("/progress", s.handleAddProgress)
	api.POST("/search", s.handleSearch)
	api.POST("/sync", s.handleSync)
	api.GET("/categories", s.handleCategories)
	api.GET("/healthz", s.handleHealth)

	return s
}

func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("http server listening")
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

type changePayload struct {
	ID           string            `json:"id"`
	Timestamp    time.Time         `json:"timestamp"`
	FilesChanged []string          `json:"files_changed"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	CommitHash   string            `json:"commit_hash,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type entryPayload struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Changes     []changePayload `json:"changes,omitempty"`
	Category    string          `json:"category"`
	Tags        []string        `json:"tags,omitempty"`
	ImpactLevel string          `json:"impact_level,omitempty"`
}

type searchPayload struct {
	Query      string     `json:"query"`
	Categories []string   `json:"categories,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	DateStart  *time.Time `json:"date_start,omitempty"`
	DateEnd    *time.Time `json:"date_end,omitempty"`
	Limit      int        `json:"limit,omitempty"`
}

type syncPayload struct {
	Since time.Time `json:"since"`
}

type syncResponse struct {
	Added    int               `json:"added"`
	Failures map[string]string `json:"failures,omitempty"`
}

func (s *Server) handleAddProgress(c echo.Context) error {
	var payload entryPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	entry := payload.toEntry()
	id, err := s.engine.Add(c.Request().Context(), entry)
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleSearch(c echo.Context) error {
	var payload searchPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	query := SearchQuery{
		Query: payload.Query,
		Tags:  payload.Tags,
	}
	for _, cat := range payload.Categories {
		query.Categories = append(query.Categories, Category(cat))
	}
	if payload.DateStart != nil || payload.DateEnd != nil {
		// A missing bound defaults to an open side, matching the CLI.
		r := &DateRange{End: time.Now().UTC()}
		if payload.DateStart != nil {
			r.Start = *payload.DateStart
		}
		if payload.DateEnd != nil {
			r.End = *payload.DateEnd
		}
		query.DateRange = r
	}

	entries, err := s.engine.Search(c.Request().Context(), query, payload.Limit)
	if err != nil {
		return s.httpError(err)
	}

	out := make([]entryPayload, 0, len(entries))
	for _, e := range entries {
		out = append(out, toPayload(e))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleSync(c echo.Context) error {
	if s.commits == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "git repository not configured")
	}

	var payload syncPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	if payload.Since.IsZero() {
		payload.Since = startOfDay(time.Now())
	}

	ctx := c.Request().Context()
	changes, err := s.commits.ChangesSince(ctx, payload.Since)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "read git history").SetInternal(err)
	}

	report, err := s.engine.SyncFromGit(ctx, changes)
	if err != nil {
		return s.httpError(err)
	}

	resp := syncResponse{Added: report.Added}
	if len(report.Failures) > 0 {
		resp.Failures = make(map[string]string, len(report.Failures))
		for _, f := range report.Failures {
			resp.Failures[f.ChangeID] = f.Err.Error()
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCategories(c echo.Context) error {
	cats := Categories()
	out := make([]string, len(cats))
	for i, cat := range cats {
		out[i] = string(cat)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"entries":   s.engine.Count(),
	})
}

// httpError maps each error kind to exactly one status code; nothing is
// collapsed into a generic catch-all.
func (s *Server) httpError(err error) error {
	var (
		validation *ValidationError
		duplicate  *DuplicateIDError
		embedding  *EmbeddingError
		storage    *StorageInitError
	)
	switch {
	case errors.As(err, &validation):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Error())
	case errors.As(err, &duplicate):
		return echo.NewHTTPError(http.StatusConflict, duplicate.Error())
	case errors.As(err, &embedding):
		s.logger.Error().Err(err).Msg("embedding capability failed")
		return echo.NewHTTPError(http.StatusBadGateway, "embedding unavailable").SetInternal(err)
	case errors.As(err, &storage):
		s.logger.Error().Err(err).Msg("storage failure")
		return echo.NewHTTPError(http.StatusInternalServerError, "storage failure").SetInternal(err)
	default:
		s.logger.Error().Err(err).Msg("internal error")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}

func (p entryPayload) toEntry() *ProgressEntry {
	entry := &ProgressEntry{
		ID:          p.ID,
		Date:        p.Date,
		Title:       p.Title,
		Description: p.Description,
		Category:    Category(p.Category),
		Tags:        p.Tags,
		ImpactLevel: ImpactLevel(p.ImpactLevel),
	}
	for _, c := range p.Changes {
		entry.Changes = append(entry.Changes, CodeChange{
			ID:           c.ID,
			Timestamp:    c.Timestamp,
			FilesChanged: c.FilesChanged,
			Description:  c.Description,
			Category:     Category(c.Category),
			CommitHash:   c.CommitHash,
			Metadata:     c.Metadata,
		})
	}
	return entry
}

func toPayload(e *ProgressEntry) entryPayload {
	p := entryPayload{
		ID:          e.ID,
		Date:        e.Date,
		Title:       e.Title,
		Description: e.Description,
		Category:    string(e.Category),
		Tags:        e.Tags,
		ImpactLevel: string(e.ImpactLevel),
	}
	for _, c := range e.Changes {
		p.Changes = append(p.Changes, changePayload{
			ID:           c.ID,
			Timestamp:    c.Timestamp,
			FilesChanged: c.FilesChanged,
			Description:  c.Description,
			Category:     string(c.Category),
			CommitHash:   c.CommitHash,
			Metadata:     c.Metadata,
		})
	}
	return p
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
