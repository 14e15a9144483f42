package main

import (
	"encoding/json"
	"fmt"

	"github.com/devlog-sh/devlog/internal"
	"github.com/spf13/cobra"
)

func NewReportCmd(engines engineFactory, providers providerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <query>",
		Short: "Generate a progress report",
		Long:  `Search matching entries and have the configured language model write a progress report from them.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeReportRunner(engines, providers),
	}

	cmd.Flags().IntP("number", "n", 20, "Maximum entries to include")
	cmd.Flags().StringSliceP("category", "c", nil, "Restrict to categories")
	cmd.Flags().Bool("freeform", false, "Plain prose instead of the structured report")
	return cmd
}

func makeReportRunner(engines engineFactory, providers providerFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")
		limit, _ := cmd.Flags().GetInt("number")
		categories, _ := cmd.Flags().GetStringSlice("category")
		freeform, _ := cmd.Flags().GetBool("freeform")

		engine, scope, err := engines(scopeHint)
		if err != nil {
			return err
		}
		provider, err := providers(cmd.Context(), scope)
		if err != nil {
			return fmt.Errorf("create provider: %w", err)
		}

		query := internal.SearchQuery{Query: args[0]}
		for _, c := range categories {
			query.Categories = append(query.Categories, internal.Category(c))
		}

		service := internal.NewReportService(engine, provider)

		if freeform {
			summary, err := service.GenerateSummary(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		}

		report, err := service.Generate(cmd.Context(), query, limit)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n\n%s\n", report.Title, report.Overview)
		if len(report.Highlights) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "\nHighlights:")
			for _, h := range report.Highlights {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", h)
			}
		}
		return nil
	}
}
