package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/devlog-sh/devlog/internal"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/rs/zerolog"
)

func setupCommits(t *testing.T, messages ...string) commitsFactory {
	t.Helper()

	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}

	when := time.Now().Add(-time.Duration(len(messages)) * time.Minute)
	for i, msg := range messages {
		name := "file" + string(rune('a'+i)) + ".go"
		if err := util.WriteFile(fs, name, []byte("package x\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("add: %v", err)
		}
		sig := &object.Signature{Name: "Dev", Email: "dev@example.com", When: when.Add(time.Duration(i) * time.Minute)}
		if _, err := wt.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}

	log := internal.NewCommitLog(repo, zerolog.Nop())
	return func(internal.Scope) (*internal.CommitLog, error) {
		return log, nil
	}
}

func TestSyncCmdImportsCommits(t *testing.T) {
	engines, engine, _ := setupEngine(t)
	commits := setupCommits(t, "fix race in scheduler", "add export feature")

	cmd := NewSyncCmd(engines, commits)
	cmd.SetArgs([]string{"--since", time.Now().Add(-24 * time.Hour).Format("2006-01-02")})

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 2 of 2 commits") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if engine.Count() != 2 {
		t.Errorf("Count() = %d, want 2", engine.Count())
	}
}

func TestSyncCmdIdempotent(t *testing.T) {
	engines, engine, _ := setupEngine(t)
	commits := setupCommits(t, "fix race in scheduler")
	since := time.Now().Add(-24 * time.Hour).Format("2006-01-02")

	for range 2 {
		cmd := NewSyncCmd(engines, commits)
		cmd.SetArgs([]string{"--since", since})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("execute: %v", err)
		}
	}
	if engine.Count() != 1 {
		t.Errorf("Count() = %d, want 1 after re-sync", engine.Count())
	}
}

func TestSyncCmdBadSince(t *testing.T) {
	engines, _, _ := setupEngine(t)
	commits := setupCommits(t, "one commit")

	cmd := NewSyncCmd(engines, commits)
	cmd.SetArgs([]string{"--since", "last tuesday"})
	cmd.SetOut(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for malformed --since")
	}
}
