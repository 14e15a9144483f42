package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/devlog-sh/devlog/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd(engines engineFactory, commits commitsFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the repository and auto-import new commits",
		Long:  `Watch the configured repository for new commits and import each one as a progress entry.`,
		RunE:  makeWatchRunner(engines, commits),
	}

	cmd.Flags().Duration("debounce", 2*time.Second, "Debounce window for batching ref updates")
	return cmd
}

func makeWatchRunner(engines engineFactory, commits commitsFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		debounce, _ := cmd.Flags().GetDuration("debounce")

		engine, scope, err := engines(scopeHint)
		if err != nil {
			return err
		}
		log, err := commits(scope)
		if err != nil {
			return fmt.Errorf("open repository: %w", err)
		}

		cfg, err := internal.LoadConfig(scope)
		if err != nil {
			return err
		}
		repoPath := cfg.Repo.Path
		if !filepath.IsAbs(repoPath) {
			repoPath = filepath.Join(scope.Path, repoPath)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		// New commits move refs; watching the refs tree plus HEAD catches
		// commits without following every worktree write.
		gitDir := filepath.Join(repoPath, ".git")
		for _, dir := range []string{gitDir, filepath.Join(gitDir, "refs", "heads")} {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for new commits...\n", repoPath)

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false
		lastSync := time.Now()

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if shouldIgnoreEvent(event) {
					continue
				}
				if !pending {
					timer.Reset(debounce)
					pending = true
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
			case <-timer.C:
				pending = false
				since := lastSync
				lastSync = time.Now()

				changes, err := log.ChangesSince(cmd.Context(), since)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "read git history: %v\n", err)
					continue
				}
				report, err := engine.SyncFromGit(cmd.Context(), changes)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "sync: %v\n", err)
					continue
				}
				if report.Added > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new commits\n", report.Added)
				}
			}
		}
	}
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	if base != "HEAD" && !strings.Contains(event.Name, string(filepath.Separator)+"refs"+string(filepath.Separator)) {
		return true
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0
}
