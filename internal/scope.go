package internal

import (
	"os"
	"path/filepath"
)

type ScopeType string

const (
	ScopeGlobal  ScopeType = "global"
	ScopeProject ScopeType = "project"
)

// Scope locates a devlog data directory: either a project-local .devlog found
// by walking up from the working directory, or the global one in $HOME.
type Scope struct {
	Type     ScopeType
	Path     string // directory the scope is rooted at
	DataPath string // .devlog directory path
}

func (s Scope) VectorPath() string {
	return filepath.Join(s.DataPath, "vectors")
}

func (s Scope) ConfigPath() string {
	return filepath.Join(s.DataPath, "config.yaml")
}

type ScopeResolver struct {
	homeDir string
}

func NewScopeResolver() *ScopeResolver {
	home, _ := os.UserHomeDir()
	return &ScopeResolver{homeDir: home}
}

func (r *ScopeResolver) Global() Scope {
	dataPath := filepath.Join(r.homeDir, ".devlog")
	return Scope{
		Type:     ScopeGlobal,
		Path:     r.homeDir,
		DataPath: dataPath,
	}
}

func (r *ScopeResolver) Project() (Scope, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return Scope{}, false
	}
	return r.findProjectScope(cwd)
}

func (r *ScopeResolver) findProjectScope(dir string) (Scope, bool) {
	for {
		dataPath := filepath.Join(dir, ".devlog")
		info, err := os.Stat(dataPath)
		if err == nil && info.IsDir() {
			return Scope{Type: ScopeProject, Path: dir, DataPath: dataPath}, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Scope{}, false
		}
		dir = parent
	}
}

// Resolve picks the scope for an explicit hint ("global" or "project"), or
// falls back to the nearest project scope, then global.
func (r *ScopeResolver) Resolve(explicit string) Scope {
	if explicit == "global" {
		return r.Global()
	}
	if scope, ok := r.Project(); ok {
		return scope
	}
	return r.Global()
}
