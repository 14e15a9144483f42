package internal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
)

// CommitLog extracts code changes from a git repository's history.
type CommitLog struct {
	repo   *git.Repository
	logger zerolog.Logger
}

func NewCommitLog(repo *git.Repository, logger zerolog.Logger) *CommitLog {
	return &CommitLog{repo: repo, logger: logger}
}

// OpenCommitLog opens the repository rooted at (or above) path.
func OpenCommitLog(path string, logger zerolog.Logger) (*CommitLog, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}
	return &CommitLog{repo: repo, logger: logger}, nil
}

// ChangesSince walks commits newer than since (newest first, as git.Log
// yields them) and converts each into a categorized CodeChange. Change ids
// are sequence numbers within the returned slice.
func (l *CommitLog) ChangesSince(ctx context.Context, since time.Time) ([]CodeChange, error) {
	iter, err := l.repo.Log(&git.LogOptions{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	var changes []CodeChange
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		changes = append(changes, l.toChange(c, len(changes)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk commits: %w", err)
	}
	return changes, nil
}

func (l *CommitLog) toChange(c *object.Commit, seq int) CodeChange {
	var files []string
	var added, deleted int

	// Stats diffs against the first parent (or the empty tree for a root
	// commit), which gives the per-file change list and line counts.
	stats, err := c.Stats()
	if err != nil {
		// The change is still usable; classification just falls back to the
		// commit message.
		l.logger.Warn().Err(err).Str("commit", c.Hash.String()).Msg("read commit stats")
	}
	for _, fs := range stats {
		files = append(files, fs.Name)
		added += fs.Addition
		deleted += fs.Deletion
	}

	message := strings.TrimSpace(c.Message)

	return CodeChange{
		ID:           strconv.Itoa(seq),
		Timestamp:    c.Committer.When,
		FilesChanged: files,
		Description:  message,
		Category:     Classify(files, message),
		CommitHash:   c.Hash.String(),
		Metadata: map[string]string{
			"author":        c.Author.Name,
			"lines_added":   strconv.Itoa(added),
			"lines_deleted": strconv.Itoa(deleted),
		},
	}
}
