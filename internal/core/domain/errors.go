package domain

import "errors"

// Domain errors represent graph processing failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown repository or store type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Document Errors.

	// ErrFileNotFound indicates a referenced markdown file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrDirectoryNotFound indicates the repository root directory does not exist.
	ErrDirectoryNotFound = errors.New("directory does not exist")

	// ErrMarkdownParsing indicates a document could not be read or parsed.
	ErrMarkdownParsing = errors.New("failed to parse markdown")

	// ErrDocumentNotFound indicates a document ID is unknown to the repository.
	ErrDocumentNotFound = errors.New("document not found")

	// Repository Errors.

	// ErrRepositoryConfiguration indicates the corpus source is unknown or misconfigured.
	// This is the only fatal error kind; it is surfaced before any processing begins.
	ErrRepositoryConfiguration = errors.New("repository configuration error")

	// ErrRepositoryClosed indicates the repository or watcher has been closed.
	ErrRepositoryClosed = errors.New("repository closed")
)
