package internal

import "fmt"

// ValidationError reports a required entry field that is missing or malformed.
// The caller must fix the input; it is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParseError reports a stored document whose section markers are missing or
// corrupt. Search surfaces it as a data-integrity warning and continues with
// the remaining hits.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed document: %s", e.Reason)
}

// EmbeddingError wraps a failure of the embedding capability. The affected
// add/search call aborts; other calls are unaffected.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// DuplicateIDError reports an id collision detected on add.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("entry %q already exists", e.ID)
}

// StorageInitError reports a failure to open the persisted store. It is never
// silently downgraded to a fresh store; callers must request fresh-store
// semantics explicitly.
type StorageInitError struct {
	Path string
	Err  error
}

func (e *StorageInitError) Error() string {
	return fmt.Sprintf("open store at %s: %v", e.Path, e.Err)
}

func (e *StorageInitError) Unwrap() error { return e.Err }
