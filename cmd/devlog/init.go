package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devlog-sh/devlog/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd(resolver *internal.ScopeResolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new progress log",
		Long:  `Create a .devlog directory with the vector store and default configuration.`,
		RunE:  makeInitRunner(resolver),
	}

	cmd.Flags().Bool("global", false, "Initialize the global log (~/.devlog)")
	return cmd
}

func makeInitRunner(resolver *internal.ScopeResolver) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		isGlobal, _ := cmd.Flags().GetBool("global")

		var scope internal.Scope
		if isGlobal {
			scope = resolver.Global()
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			scope = internal.Scope{
				Type:     internal.ScopeProject,
				Path:     cwd,
				DataPath: filepath.Join(cwd, ".devlog"),
			}
		}

		if _, err := os.Stat(scope.DataPath); err == nil {
			return fmt.Errorf("already initialized at %s", scope.DataPath)
		}

		if err := os.MkdirAll(scope.VectorPath(), 0755); err != nil {
			return fmt.Errorf("create vectors directory: %w", err)
		}

		if err := internal.SaveConfig(scope, internal.DefaultConfig()); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized progress log at %s\n", scope.DataPath)
		return nil
	}
}
