package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v68/github"
)

// IssueTracker links progress entries to issues in a GitHub repository.
type IssueTracker struct {
	client *github.Client
	owner  string
	repo   string
}

// NewIssueTracker creates a tracker for the "owner/name" repository.
func NewIssueTracker(token, ownerRepo string) (*IssueTracker, error) {
	owner, repo, ok := strings.Cut(ownerRepo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("repository must be in owner/name form, got %q", ownerRepo)
	}

	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &IssueTracker{client: client, owner: owner, repo: repo}, nil
}

// CreateIssue opens a new issue and returns its number.
func (t *IssueTracker) CreateIssue(ctx context.Context, title, body string, labels []string) (int, error) {
	issue, _, err := t.client.Issues.Create(ctx, t.owner, t.repo, &github.IssueRequest{
		Title:  github.String(title),
		Body:   github.String(body),
		Labels: &labels,
	})
	if err != nil {
		return 0, fmt.Errorf("create issue: %w", err)
	}
	return issue.GetNumber(), nil
}

// UpdateIssue sets the issue state ("open" or "closed") and optionally adds a
// comment.
func (t *IssueTracker) UpdateIssue(ctx context.Context, number int, state, comment string) error {
	if comment != "" {
		_, _, err := t.client.Issues.CreateComment(ctx, t.owner, t.repo, number, &github.IssueComment{
			Body: github.String(comment),
		})
		if err != nil {
			return fmt.Errorf("add comment: %w", err)
		}
	}

	if state != "" {
		_, _, err := t.client.Issues.Edit(ctx, t.owner, t.repo, number, &github.IssueRequest{
			State: github.String(strings.ToLower(state)),
		})
		if err != nil {
			return fmt.Errorf("edit issue: %w", err)
		}
	}

	return nil
}

// LinkProgress posts a progress entry onto an issue as a markdown comment.
func (t *IssueTracker) LinkProgress(ctx context.Context, number int, entry *ProgressEntry) error {
	_, _, err := t.client.Issues.CreateComment(ctx, t.owner, t.repo, number, &github.IssueComment{
		Body: github.String(FormatIssueComment(entry)),
	})
	if err != nil {
		return fmt.Errorf("link progress: %w", err)
	}
	return nil
}

// FormatIssueComment renders an entry as the markdown body used by
// LinkProgress.
func FormatIssueComment(entry *ProgressEntry) string {
	var b strings.Builder
	b.WriteString("## Progress Update\n")
	fmt.Fprintf(&b, "- Title: %s\n", entry.Title)
	fmt.Fprintf(&b, "- Date: %s\n", entry.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Category: %s\n", entry.Category)
	fmt.Fprintf(&b, "- Impact: %s\n", entry.ImpactLevel)
	fmt.Fprintf(&b, "- Tags: %s\n", strings.Join(entry.Tags, ", "))
	b.WriteString("\n### Description\n")
	b.WriteString(entry.Description)

	if len(entry.Changes) > 0 {
		b.WriteString("\n\n### Changes\n")
		for _, c := range entry.Changes {
			fmt.Fprintf(&b, "- %s\n", c.Description)
			fmt.Fprintf(&b, "  - Files: %s\n", strings.Join(c.FilesChanged, ", "))
			fmt.Fprintf(&b, "  - Category: %s\n", c.Category)
		}
	}

	return b.String()
}
