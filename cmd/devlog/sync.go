package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func NewSyncCmd(engines engineFactory, commits commitsFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import git commits as progress entries",
		Long:  `Read the configured repository's history and store one entry per commit. Already imported commits are skipped.`,
		RunE:  makeSyncRunner(engines, commits),
	}

	cmd.Flags().String("since", "", "Import commits after this date (YYYY-MM-DD, default today)")
	return cmd
}

func makeSyncRunner(engines engineFactory, commits commitsFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		sinceArg, _ := cmd.Flags().GetString("since")

		since := startOfToday()
		if sinceArg != "" {
			parsed, err := time.Parse("2006-01-02", sinceArg)
			if err != nil {
				return fmt.Errorf("parse --since: %w", err)
			}
			since = parsed
		}

		engine, scope, err := engines(scopeHint)
		if err != nil {
			return err
		}
		log, err := commits(scope)
		if err != nil {
			return fmt.Errorf("open repository: %w", err)
		}

		changes, err := log.ChangesSince(cmd.Context(), since)
		if err != nil {
			return fmt.Errorf("read git history: %w", err)
		}

		report, err := engine.SyncFromGit(cmd.Context(), changes)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d commits\n", report.Added, len(changes))
		for _, f := range report.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", f.ChangeID, f.Err)
		}
		return nil
	}
}
