package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/devlog-sh/devlog/internal"
	"github.com/rs/zerolog"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx := context.Background()

	app := newApp()
	rootCmd := NewRootCmd(version, app)
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}

// engineFactory opens the engine for a scope hint and reports the scope it
// resolved to.
type engineFactory func(scopeHint string) (*internal.Engine, internal.Scope, error)

// commitsFactory opens the commit log of the repository configured for scope.
type commitsFactory func(scope internal.Scope) (*internal.CommitLog, error)

// providerFactory builds the language-model provider configured for scope.
type providerFactory func(ctx context.Context, scope internal.Scope) (internal.Provider, error)

// trackerFactory builds the issue tracker configured for scope.
type trackerFactory func(scope internal.Scope) (*internal.IssueTracker, error)

type app struct {
	resolver *internal.ScopeResolver
	logger   zerolog.Logger
}

func newApp() *app {
	level := zerolog.WarnLevel
	if os.Getenv("DEVLOG_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	return &app{
		resolver: internal.NewScopeResolver(),
		logger:   logger,
	}
}

func (a *app) engineFor(scopeHint string) (*internal.Engine, internal.Scope, error) {
	scope := a.resolver.Resolve(scopeHint)
	if _, err := os.Stat(scope.DataPath); os.IsNotExist(err) {
		return nil, scope, fmt.Errorf("not initialized at %s (run 'devlog init' first)", scope.DataPath)
	}

	cfg, err := internal.LoadConfig(scope)
	if err != nil {
		return nil, scope, err
	}

	embedder, err := internal.NewEmbedder(cfg.Embeddings)
	if err != nil {
		return nil, scope, fmt.Errorf("create embedder: %w", err)
	}

	index, err := internal.NewAnnoyIndex(scope.VectorPath(), embedder.Dimension())
	if err != nil {
		return nil, scope, fmt.Errorf("create index: %w", err)
	}

	store, err := internal.OpenVectorStore(scope.VectorPath(), embedder, index, false)
	if err != nil {
		return nil, scope, err
	}

	return internal.NewEngine(store, a.logger), scope, nil
}

func (a *app) commitsFor(scope internal.Scope) (*internal.CommitLog, error) {
	cfg, err := internal.LoadConfig(scope)
	if err != nil {
		return nil, err
	}

	repoPath := cfg.Repo.Path
	if !filepath.IsAbs(repoPath) {
		repoPath = filepath.Join(scope.Path, repoPath)
	}
	return internal.OpenCommitLog(repoPath, a.logger)
}

func (a *app) providerFor(ctx context.Context, scope internal.Scope) (internal.Provider, error) {
	cfg, err := internal.LoadConfig(scope)
	if err != nil {
		return nil, err
	}

	name := cfg.DefaultProvider
	if name == "" {
		return nil, fmt.Errorf("no default provider configured")
	}
	pc, ok := cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}

	return internal.NewFantasyProvider(ctx, internal.FantasyConfig{
		Provider: name,
		APIKey:   pc.APIKey,
		BaseURL:  pc.BaseURL,
		Model:    pc.Model,
	})
}

func (a *app) trackerFor(scope internal.Scope) (*internal.IssueTracker, error) {
	cfg, err := internal.LoadConfig(scope)
	if err != nil {
		return nil, err
	}
	if cfg.GitHub.Repo == "" {
		return nil, fmt.Errorf("github.repo not configured")
	}

	token := cfg.GitHub.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	return internal.NewIssueTracker(token, cfg.GitHub.Repo)
}
