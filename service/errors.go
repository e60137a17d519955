package service

import "errors"

// Registry and dispatcher errors. Callers match them with errors.Is.
var (
	// ErrNotADirectory indicates an init target that does not exist or is a file.
	ErrNotADirectory = errors.New("not a directory")

	// ErrConfigMissing indicates there is no workspace document at the root.
	ErrConfigMissing = errors.New("workspace config not found")

	// ErrConfigCorrupt indicates a document that cannot be parsed or carries an unsupported version.
	ErrConfigCorrupt = errors.New("workspace config is corrupt")

	// ErrLegacyFormat indicates a document written with the old symbol-key naming.
	ErrLegacyFormat = errors.New("workspace config uses the legacy format, run convert-config")

	// ErrNotAGitRepo indicates a path without a .git marker.
	ErrNotAGitRepo = errors.New("not a git repository")

	// ErrNotFound indicates no repository is registered under the name.
	ErrNotFound = errors.New("repository not found")

	// ErrRepoNotFound is the single-repository runner's fatal lookup failure.
	ErrRepoNotFound = errors.New("repository not found or missing on disk")
)
