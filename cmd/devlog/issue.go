package main

import (
	"fmt"
	"strconv"

	"github.com/devlog-sh/devlog/internal"
	"github.com/spf13/cobra"
)

func NewIssueCmd(engines engineFactory, trackers trackerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Manage linked GitHub issues",
		Long:  `Create GitHub issues and link progress entries to them. Requires github.repo in the configuration.`,
	}

	cmd.AddCommand(
		newIssueCreateCmd(trackers),
		newIssueLinkCmd(engines, trackers),
		newIssueCloseCmd(trackers),
	)
	return cmd
}

func newIssueCreateCmd(trackers trackerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Open a new issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _ := cmd.Flags().GetString("body")
			labels, _ := cmd.Flags().GetStringSlice("label")

			tracker, err := resolveTracker(cmd, trackers)
			if err != nil {
				return err
			}

			number, err := tracker.CreateIssue(cmd.Context(), args[0], body, labels)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created issue #%d\n", number)
			return nil
		},
	}

	cmd.Flags().StringP("body", "b", "", "Issue body")
	cmd.Flags().StringSliceP("label", "l", nil, "Labels")
	return cmd
}

func newIssueLinkCmd(engines engineFactory, trackers trackerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "link <number> <entry-id>",
		Short: "Post a progress entry onto an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse issue number: %w", err)
			}

			scopeHint, _ := cmd.Flags().GetString("scope")
			engine, _, err := engines(scopeHint)
			if err != nil {
				return err
			}
			entry, err := engine.Get(args[1])
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("no entry with id %q", args[1])
			}

			tracker, err := resolveTracker(cmd, trackers)
			if err != nil {
				return err
			}
			if err := tracker.LinkProgress(cmd.Context(), number, entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to issue #%d\n", entry.ID, number)
			return nil
		},
	}
}

func newIssueCloseCmd(trackers trackerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close <number>",
		Short: "Close an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse issue number: %w", err)
			}
			comment, _ := cmd.Flags().GetString("comment")

			tracker, err := resolveTracker(cmd, trackers)
			if err != nil {
				return err
			}
			if err := tracker.UpdateIssue(cmd.Context(), number, "closed", comment); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Closed issue #%d\n", number)
			return nil
		},
	}

	cmd.Flags().StringP("comment", "m", "", "Closing comment")
	return cmd
}

func resolveTracker(cmd *cobra.Command, trackers trackerFactory) (*internal.IssueTracker, error) {
	scopeHint, _ := cmd.Flags().GetString("scope")
	resolver := internal.NewScopeResolver()
	return trackers(resolver.Resolve(scopeHint))
}
