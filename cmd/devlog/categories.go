package main

import (
	"encoding/json"
	"fmt"

	"github.com/devlog-sh/devlog/internal"
	"github.com/spf13/cobra"
)

func NewCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the known entry categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			cats := internal.Categories()
			if asJSON {
				out := make([]string, len(cats))
				for i, c := range cats {
					out[i] = string(c)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			for _, c := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
