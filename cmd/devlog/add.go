package main

import (
	"fmt"
	"time"

	"github.com/devlog-sh/devlog/internal"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func NewAddCmd(engines engineFactory, commits commitsFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Record a progress entry",
		Long:  `Record a new progress entry. With --from-git, today's commits are attached as the entry's changes.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeAddRunner(engines, commits),
	}

	cmd.Flags().StringP("description", "d", "", "What was accomplished")
	cmd.Flags().StringP("category", "c", "feature", "Entry category")
	cmd.Flags().StringSliceP("tag", "g", nil, "Tags (repeatable)")
	cmd.Flags().StringP("impact", "i", "minor", "Impact level (minor|major|critical)")
	cmd.Flags().String("id", "", "Explicit entry id (generated when empty)")
	cmd.Flags().Bool("from-git", false, "Attach today's commits as changes")
	return cmd
}

func makeAddRunner(engines engineFactory, commits commitsFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		description, _ := cmd.Flags().GetString("description")
		category, _ := cmd.Flags().GetString("category")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		impact, _ := cmd.Flags().GetString("impact")
		id, _ := cmd.Flags().GetString("id")
		fromGit, _ := cmd.Flags().GetBool("from-git")

		engine, scope, err := engines(scopeHint)
		if err != nil {
			return err
		}

		if id == "" {
			id = uuid.NewString()
		}
		entry := &internal.ProgressEntry{
			ID:          id,
			Date:        time.Now().UTC(),
			Title:       args[0],
			Description: description,
			Category:    internal.Category(category),
			Tags:        tags,
			ImpactLevel: internal.ImpactLevel(impact),
		}

		if fromGit {
			log, err := commits(scope)
			if err != nil {
				return fmt.Errorf("open repository: %w", err)
			}
			changes, err := log.ChangesSince(cmd.Context(), startOfToday())
			if err != nil {
				return fmt.Errorf("read git history: %w", err)
			}
			entry.Changes = changes
		}

		if _, err := engine.Add(cmd.Context(), entry); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s\n", entry.ID)
		return nil
	}
}

func startOfToday() time.Time {
	now := time.Now()
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}
