package v1

import "github.com/devlog-sh/devlog/internal"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	scope    string
	dataPath string
	embedder internal.Embedder
}

// WithScope forces a specific scope ("global" or "project").
func WithScope(scope string) Option {
	return func(c *clientConfig) {
		c.scope = scope
	}
}

// WithDataPath stores everything under the given directory instead of a
// resolved .devlog scope.
func WithDataPath(path string) Option {
	return func(c *clientConfig) {
		c.dataPath = path
	}
}

// WithEmbedder overrides the configured embedder. Mainly for tests and
// offline use.
func WithEmbedder(e internal.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}
