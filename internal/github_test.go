package internal

import (
	"strings"
	"testing"
	"time"
)

func TestNewIssueTrackerValidatesRepo(t *testing.T) {
	for _, bad := range []string{"", "just-a-name", "/name", "owner/"} {
		if _, err := NewIssueTracker("", bad); err == nil {
			t.Errorf("NewIssueTracker(%q) expected error", bad)
		}
	}

	tracker, err := NewIssueTracker("", "acme/widgets")
	if err != nil {
		t.Fatalf("NewIssueTracker() returned error: %v", err)
	}
	if tracker.owner != "acme" || tracker.repo != "widgets" {
		t.Errorf("parsed owner/repo = %q/%q", tracker.owner, tracker.repo)
	}
}

func TestFormatIssueComment(t *testing.T) {
	entry := validEntry()
	entry.Changes = []CodeChange{{
		Timestamp:    time.Now().UTC(),
		FilesChanged: []string{"internal/upload.go"},
		Description:  "add exponential backoff",
		Category:     CategoryFeature,
	}}

	body := FormatIssueComment(entry)

	for _, want := range []string{
		"## Progress Update",
		"- Title: Add retry logic to uploader",
		"- Date: 2025-03-14",
		"- Category: feature",
		"- Tags: uploader, reliability",
		"### Description",
		"### Changes",
		"- add exponential backoff",
		"  - Files: internal/upload.go",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("comment missing %q:\n%s", want, body)
		}
	}
}

func TestFormatIssueCommentNoChanges(t *testing.T) {
	body := FormatIssueComment(validEntry())
	if strings.Contains(body, "### Changes") {
		t.Error("changes section rendered for entry without changes")
	}
}
