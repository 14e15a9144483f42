package internal

import (
	"path/filepath"
	"strings"
)

// Classify maps a commit's changed files and message to a category. It is
// pure and deterministic; the first matching rule wins, and file-based rules
// outrank message-based ones.
func Classify(filesChanged []string, message string) Category {
	for _, f := range filesChanged {
		if isTestFile(f) {
			return CategoryTesting
		}
	}
	for _, f := range filesChanged {
		if isUIFile(f) {
			return CategoryUI
		}
	}

	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "fix") || strings.Contains(msg, "bug"):
		return CategoryBugfix
	case strings.Contains(msg, "feature"):
		return CategoryFeature
	case strings.Contains(msg, "refactor"):
		return CategoryRefactor
	}
	return CategoryOther
}

func isTestFile(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") ||
		strings.HasPrefix(base, "test_") ||
		strings.Contains(base, "_test.")
}

func isUIFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css", ".scss", ".html":
		return true
	}
	return false
}
