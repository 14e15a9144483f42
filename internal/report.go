package internal

import (
	"context"
	"fmt"
	"strings"
)

// ReportService turns search results into an LLM-written progress report.
type ReportService struct {
	engine   *Engine
	provider Provider
}

func NewReportService(engine *Engine, provider Provider) *ReportService {
	return &ReportService{engine: engine, provider: provider}
}

func (s *ReportService) Generate(ctx context.Context, query SearchQuery, limit int) (*ProgressReport, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("provider not available")
	}

	entries, err := s.engine.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}

	if len(entries) == 0 {
		return &ProgressReport{Title: "Empty", Overview: "No matching progress entries"}, nil
	}

	var report ProgressReport
	if err := s.provider.GenerateObject(ctx, reportPrompt(entries), &report); err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	return &report, nil
}

// GenerateSummary is the freeform counterpart of Generate: same entry
// selection, but the model answers in plain prose instead of the structured
// report shape.
func (s *ReportService) GenerateSummary(ctx context.Context, query SearchQuery, limit int) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("provider not available")
	}

	entries, err := s.engine.Search(ctx, query, limit)
	if err != nil {
		return "", fmt.Errorf("search entries: %w", err)
	}

	if len(entries) == 0 {
		return "No matching progress entries", nil
	}

	summary, err := s.provider.Complete(ctx, reportPrompt(entries))
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	return summary, nil
}

func reportPrompt(entries []*ProgressEntry) string {
	var sb strings.Builder
	sb.WriteString("Write a development progress report covering these entries:\n\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "## %s (%s, %s)\n%s\n\n", e.Title, e.Category, e.ImpactLevel, e.Description)
	}
	return sb.String()
}
