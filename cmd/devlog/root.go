package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version string, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "devlog",
		Short:         "Searchable development progress log",
		Long:          `Record development progress entries, sync them from git history and search them semantically.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)

	if a != nil {
		addSubcommands(rootCmd, a)
	}

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("scope", "", "Target scope (global|project)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

func addSubcommands(root *cobra.Command, a *app) {
	root.AddCommand(
		NewInitCmd(a.resolver),
		NewAddCmd(a.engineFor, a.commitsFor),
		NewSearchCmd(a.engineFor),
		NewSyncCmd(a.engineFor, a.commitsFor),
		NewServeCmd(a.engineFor, a.commitsFor, a.logger),
		NewWatchCmd(a.engineFor, a.commitsFor),
		NewReportCmd(a.engineFor, a.providerFor),
		NewIssueCmd(a.engineFor, a.trackerFor),
		NewCategoriesCmd(),
	)
}
