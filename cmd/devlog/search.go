package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/devlog-sh/devlog/internal"
	"github.com/spf13/cobra"
)

func NewSearchCmd(engines engineFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search progress entries",
		Long:  `Search stored entries by semantic similarity, optionally narrowed by category, tags and date.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeSearchRunner(engines),
	}

	cmd.Flags().StringSliceP("category", "c", nil, "Restrict to categories")
	cmd.Flags().StringSliceP("tag", "g", nil, "Restrict to entries carrying any of these tags")
	cmd.Flags().String("since", "", "Earliest entry date (YYYY-MM-DD)")
	cmd.Flags().String("until", "", "Latest entry date (YYYY-MM-DD)")
	cmd.Flags().IntP("number", "n", internal.DefaultSearchLimit, "Maximum results")
	return cmd
}

func makeSearchRunner(engines engineFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")
		categories, _ := cmd.Flags().GetStringSlice("category")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		since, _ := cmd.Flags().GetString("since")
		until, _ := cmd.Flags().GetString("until")
		limit, _ := cmd.Flags().GetInt("number")

		engine, _, err := engines(scopeHint)
		if err != nil {
			return err
		}

		query := internal.SearchQuery{Query: args[0], Tags: tags}
		for _, c := range categories {
			query.Categories = append(query.Categories, internal.Category(c))
		}
		query.DateRange, err = parseDateRange(since, until)
		if err != nil {
			return err
		}

		entries, err := engine.Search(cmd.Context(), query, limit)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entriesJSON(entries))
		}

		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s/%s]  %s\n",
				e.Date.Format("2006-01-02"), e.Category, e.ImpactLevel, e.Title)
		}
		return nil
	}
}

func parseDateRange(since, until string) (*internal.DateRange, error) {
	if since == "" && until == "" {
		return nil, nil
	}

	r := &internal.DateRange{
		Start: time.Time{},
		End:   time.Now().UTC(),
	}
	if since != "" {
		start, err := time.Parse("2006-01-02", since)
		if err != nil {
			return nil, fmt.Errorf("parse --since: %w", err)
		}
		r.Start = start
	}
	if until != "" {
		end, err := time.Parse("2006-01-02", until)
		if err != nil {
			return nil, fmt.Errorf("parse --until: %w", err)
		}
		// Inclusive through the end of the given day.
		r.End = end.Add(24*time.Hour - time.Nanosecond)
	}
	return r, nil
}

func entriesJSON(entries []*internal.ProgressEntry) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]any{
			"id":          e.ID,
			"date":        e.Date.Format(time.RFC3339),
			"title":       e.Title,
			"description": e.Description,
			"category":    string(e.Category),
			"tags":        e.Tags,
			"impact":      string(e.ImpactLevel),
		})
	}
	return out
}
