package internal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type EmbeddingsConfig struct {
	Provider  string `yaml:"provider"` // "openai" (any compatible endpoint) or "hash"
	Model     string `yaml:"model,omitempty"`
	Dimension int    `yaml:"dimension"`
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

type RepoConfig struct {
	Path string `yaml:"path"`
}

type GitHubConfig struct {
	Token string `yaml:"token,omitempty"`
	Repo  string `yaml:"repo,omitempty"` // owner/name
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Repo            RepoConfig                `yaml:"repo"`
	Embeddings      EmbeddingsConfig          `yaml:"embeddings"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	GitHub          GitHubConfig              `yaml:"github,omitempty"`
	Server          ServerConfig              `yaml:"server"`
}

func DefaultConfig() *Config {
	return &Config{
		Repo: RepoConfig{Path: "."},
		Embeddings: EmbeddingsConfig{
			Provider:  "hash",
			Dimension: 256,
		},
		Providers: make(map[string]ProviderConfig),
		Server:    ServerConfig{Addr: "127.0.0.1:7391"},
	}
}

func LoadConfig(scope Scope) (*Config, error) {
	path := scope.ConfigPath()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if cfg.Embeddings.Provider == "" {
		cfg.Embeddings.Provider = "hash"
	}
	if cfg.Embeddings.Dimension == 0 {
		cfg.Embeddings.Dimension = 256
	}

	return &cfg, nil
}

func SaveConfig(scope Scope, cfg *Config) error {
	path := scope.ConfigPath()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// NewEmbedder builds the embedder selected by cfg.
func NewEmbedder(cfg EmbeddingsConfig) (Embedder, error) {
	switch cfg.Provider {
	case "hash":
		return NewHashingEmbedder(cfg.Dimension), nil
	case "openai", "":
		return NewOpenAIEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unsupported embeddings provider: %s", cfg.Provider)
	}
}
