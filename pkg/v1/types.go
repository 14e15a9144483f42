package v1

import "time"

// Change is one code modification attached to an entry.
type Change struct {
	Timestamp    time.Time         `json:"timestamp"`
	FilesChanged []string          `json:"files_changed,omitempty"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	CommitHash   string            `json:"commit_hash,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Entry is a recorded unit of development progress.
type Entry struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Changes     []Change  `json:"changes,omitempty"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
	ImpactLevel string    `json:"impact_level,omitempty"`
}

// Query narrows a search. Only Query is required.
type Query struct {
	Query      string     `json:"query"`
	Categories []string   `json:"categories,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	DateStart  *time.Time `json:"date_start,omitempty"`
	DateEnd    *time.Time `json:"date_end,omitempty"`
}

// SyncReport summarizes a git import.
type SyncReport struct {
	Added    int               `json:"added"`
	Failures map[string]string `json:"failures,omitempty"`
}
